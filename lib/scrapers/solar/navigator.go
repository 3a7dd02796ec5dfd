package solar

import (
	"context"
	"fmt"
	"log/slog"
	"solarsync-backend/lib/browser"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Navigator walks the plant list page by page. It is a finite,
// forward-only iterator: once Next returns false the traversal is
// over and cannot be restarted.
//
//	nav := solar.NewNavigator(page, profile, pacing)
//	for nav.Next(ctx) {
//		commit(nav.Rows())
//	}
//	if err := nav.Err(); err != nil { ... }
type Navigator struct {
	page    browser.Page
	profile VendorProfile
	pacing  browser.Pacing

	prepared     bool
	pageNum      int
	lastFirstRow string
	rows         []RawPlantRecord
	err          error
	done         bool
}

func NewNavigator(page browser.Page, profile VendorProfile, pacing browser.Pacing) *Navigator {
	return &Navigator{
		page:    page,
		profile: profile.withDefaults(),
		pacing:  pacing,
	}
}

// Rows holds the records of the page Next just delivered.
func (n *Navigator) Rows() []RawPlantRecord { return n.rows }

// PageNum is the 1-based number of the page Rows came from.
func (n *Navigator) PageNum() int { return n.pageNum }

func (n *Navigator) Err() error { return n.err }

func (n *Navigator) fail(err error) {
	n.err = err
	n.done = true
}

// Next moves to the next page of the list and extracts it. It returns
// false when the list is exhausted, the page bound is hit, or
// navigation can no longer make progress; Err reports whether the
// stop was a failure.
func (n *Navigator) Next(ctx context.Context) bool {
	if n.done {
		return false
	}

	if !n.prepared {
		if err := n.prepare(ctx); err != nil {
			n.fail(err)
			return false
		}
		n.prepared = true
	} else {
		if n.pageNum >= n.profile.MaxPages {
			slog.WarnContext(ctx, "stopping at the page bound",
				"vendor", n.profile.Name, "pages", n.pageNum)
			n.done = true
			return false
		}
		if !n.advance(ctx) {
			n.done = true
			return false
		}
		n.pacing.Sleep(ctx)
	}
	n.pageNum++

	records, err := n.extractCurrent(ctx)
	if err != nil {
		if n.pageNum == 1 {
			n.fail(err)
		} else {
			// the table was there a page ago; treat a vanished table
			// as the end of the list, keep what was committed
			n.done = true
		}
		return false
	}
	if len(records) == 0 {
		n.done = true
		return false
	}
	if records[0].Name == n.lastFirstRow {
		// the advance click didn't actually move the list
		n.done = true
		return false
	}
	n.lastFirstRow = records[0].Name
	n.rows = records
	return true
}

func (n *Navigator) prepare(ctx context.Context) error {
	if n.profile.ListURL != "" {
		if err := n.page.Navigate(ctx, n.profile.ListURL); err != nil {
			return fmt.Errorf("%s: failed to open plant list: %w", n.profile.Name, err)
		}
		n.pacing.Sleep(ctx)
	}

	if !n.hasTable(ctx) {
		var toggled bool
		err := n.page.Evaluate(ctx, listViewToggleScript, &toggled)
		if err == nil && toggled {
			n.pacing.Sleep(ctx)
		}
		if !n.hasTable(ctx) {
			return fmt.Errorf("%s: %w", n.profile.Name, ErrListViewUnreachable)
		}
	}

	// page size raise is best effort, pagination covers the rest
	var raised bool
	if err := n.page.Evaluate(ctx, pageSizeScript, &raised); err == nil && raised {
		n.pacing.Sleep(ctx)
	}
	return nil
}

func (n *Navigator) hasTable(ctx context.Context) bool {
	_, err := n.extractCurrent(ctx)
	return err == nil
}

func (n *Navigator) extractCurrent(ctx context.Context) ([]RawPlantRecord, error) {
	rendered, err := n.page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read page: %w", n.profile.Name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse page: %w", n.profile.Name, err)
	}
	return Extract(doc, n.profile)
}

// ordered fallback chain; every portal answers to at least one of
// these, and the unchanged-first-row check above catches the liars
func (n *Navigator) advance(ctx context.Context) bool {
	scripts := []string{
		nextControlScript,
		numberedPageScript(n.pageNum + 1),
		genericAdvanceScript,
		rightmostControlScript,
	}
	for _, script := range scripts {
		var moved bool
		err := n.page.Evaluate(ctx, script, &moved)
		if err != nil {
			continue
		}
		if moved {
			return true
		}
	}
	return false
}
