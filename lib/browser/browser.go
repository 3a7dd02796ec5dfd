// Package browser abstracts the headless browser the vendor portals
// require; they are client-rendered SPAs, a plain http client only
// ever sees an empty shell.
package browser

import "context"

// Page is one browser tab. Implementations must bound every call with
// their own timeout so a hung portal cannot stall a round forever.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	// the full rendered document, suitable for goquery
	HTML(ctx context.Context) (string, error)
	PressEnter(ctx context.Context) error
	// runs a javascript expression, unmarshalling its result into out
	Evaluate(ctx context.Context, expr string, out any) error
	Close() error
}

// Browser hands out pages. The orchestrator acquires one page per
// vendor run and always releases it.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}
