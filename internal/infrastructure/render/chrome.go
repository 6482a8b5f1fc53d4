package render

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Smartoire/Contentoire/internal/domain"
	"github.com/Smartoire/Contentoire/internal/ports"
)

// Browsers advertise webdriver=true under automation; sites use it to serve
// bot walls instead of articles. Clearing it before any page script runs keeps
// the rendered DOM close to what a reader would see.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ChromeRenderer implements ports.PageRenderer with a headless Chrome session
// per render. Sessions are never pooled: each page gets a fresh profile so
// cookies and fingerprinting state cannot leak between entries.
type ChromeRenderer struct {
	sessions chan struct{}
	logger   *slog.Logger
}

var _ ports.PageRenderer = (*ChromeRenderer)(nil)

// NewChromeRenderer caps concurrent browser sessions at maxSessions to bound
// memory and CPU.
func NewChromeRenderer(maxSessions int, logger *slog.Logger) *ChromeRenderer {
	if maxSessions <= 0 {
		maxSessions = 3
	}
	return &ChromeRenderer{
		sessions: make(chan struct{}, maxSessions),
		logger:   logger,
	}
}

// Render loads the page and returns its rendered HTML. The browser session and
// its temporary profile directory are released on every exit path.
func (r *ChromeRenderer) Render(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	select {
	case r.sessions <- struct{}{}:
	case <-ctx.Done():
		return "", &domain.TransientError{Op: "render " + pageURL, Err: ctx.Err()}
	}
	defer func() { <-r.sessions }()

	profileDir, err := os.MkdirTemp("", "contentoire-chrome-")
	if err != nil {
		return "", &domain.TransientError{Op: "render " + pageURL, Err: err}
	}
	defer os.RemoveAll(profileDir)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(browserUserAgent),
		chromedp.UserDataDir(profileDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, timeout)
	defer cancelRun()

	start := time.Now()
	var html string
	err = chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &domain.TransientError{Op: "render " + pageURL, Err: err}
	}

	if r.logger != nil {
		r.logger.Debug("page rendered", "url", pageURL, "bytes", len(html), "took", time.Since(start).Round(time.Millisecond))
	}

	return html, nil
}
