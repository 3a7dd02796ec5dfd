package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

type ChromeOptions struct {
	// shows the browser window, for debugging scraper changes
	Headful bool
	// per-interaction deadline, defaults to 30s
	StepTimeout time.Duration
}

// Chrome owns one headless browser process and hands out tabs.
type Chrome struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	options  ChromeOptions
}

func NewChrome(ctx context.Context, options ChromeOptions) *Chrome {
	if options.StepTimeout <= 0 {
		options.StepTimeout = 30 * time.Second
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if options.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Chrome{
		allocCtx: allocCtx,
		cancel:   cancel,
		options:  options,
	}
}

func (c *Chrome) NewPage(ctx context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	// spawn the tab eagerly so acquisition failures surface here
	// instead of inside the first navigation
	err := chromedp.Run(tabCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	return &chromePage{
		ctx:     tabCtx,
		cancel:  cancel,
		timeout: c.options.StepTimeout,
	}, nil
}

func (c *Chrome) Close() {
	c.cancel()
}

type chromePage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stepCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	return chromedp.Run(stepCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (p *chromePage) Location(ctx context.Context) (string, error) {
	var url string
	err := p.run(ctx, chromedp.Location(&url))
	return url, err
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var out string
	err := p.run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery))
	return out, err
}

func (p *chromePage) PressEnter(ctx context.Context) error {
	return p.run(ctx, chromedp.KeyEvent(kb.Enter))
}

func (p *chromePage) Evaluate(ctx context.Context, expr string, out any) error {
	return p.run(ctx, chromedp.Evaluate(expr, out))
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}
