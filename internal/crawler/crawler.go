// Package crawler loads a landing page in a headless browser at desktop and
// mobile viewports and produces the snapshot every QA check reads from.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

// Crawler drives headless page loads. Safe for sequential reuse across
// URLs; each Crawl spawns its own browser process.
type Crawler struct {
	cfg config.BrowserConfig
	out config.OutputConfig
	log *slog.Logger
}

func New(cfg config.BrowserConfig, out config.OutputConfig, log *slog.Logger) *Crawler {
	if log == nil {
		log = slog.Default()
	}
	return &Crawler{cfg: cfg, out: out, log: log}
}

// Crawl loads url at the desktop and mobile viewports concurrently and
// assembles the page snapshot. The desktop load is authoritative: its
// failure fails the crawl, while a mobile failure degrades to a snapshot
// without mobile data.
func (c *Crawler) Crawl(ctx context.Context, url string) (*models.PageSnapshot, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if c.cfg.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(c.cfg.ProxyURL))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	var (
		wg                    sync.WaitGroup
		desktop, mobile       *loadResult
		desktopErr, mobileErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		desktop, desktopErr = loadPage(allocCtx, c.cfg, url, viewport{
			Width:  c.cfg.DesktopWidth,
			Height: c.cfg.DesktopHeight,
		}, c.out.Screenshots)
	}()
	go func() {
		defer wg.Done()
		mobile, mobileErr = loadPage(allocCtx, c.cfg, url, viewport{
			Width:     c.cfg.MobileWidth,
			Height:    c.cfg.MobileHeight,
			Mobile:    true,
			UserAgent: c.cfg.MobileUserAgent,
		}, c.out.Screenshots)
	}()
	wg.Wait()

	if desktopErr != nil {
		return nil, fmt.Errorf("crawl: %w", desktopErr)
	}
	if mobileErr != nil {
		c.log.Warn("mobile crawl failed, continuing with desktop only", "url", url, "error", mobileErr)
	}

	dom := extractDOM(desktop.HTML)
	snap := &models.PageSnapshot{
		URL:             url,
		FinalURL:        desktop.FinalURL,
		Title:           dom.Title,
		MetaTitle:       dom.MetaTitle,
		StatusCode:      desktop.StatusCode,
		ConsoleErrors:   desktop.ConsoleErrors,
		ConsoleWarnings: desktop.ConsoleWarnings,
		NetworkRequests: desktop.NetworkRequests,
		Fonts:           desktop.Eval.Fonts,
		Images:          desktop.Eval.Images,
		Links:           dom.Links,
		Forms:           dom.Forms,
		Scripts:         dom.Scripts,
		StickyElements:  desktop.Eval.StickyElements,
		DOMHTML:         desktop.HTML,
		Compression:     desktop.Compression,
		RedirectChain:   desktop.RedirectChain,
		LoadTimeMS:      desktop.LoadTimeMS,
	}
	for _, r := range desktop.NetworkRequests {
		snap.PageSizeBytes += r.Size
	}

	if mobileErr == nil && mobile != nil {
		mobileDOM := extractDOM(mobile.HTML)
		snap.Mobile = &models.ViewportSnapshot{
			StickyElements: mobile.Eval.StickyElements,
			Forms:          mobileDOM.Forms,
			Images:         mobile.Eval.Images,
			CTAButtons:     mobile.Eval.CTAButtons,
			Links:          mobileDOM.Links,
			Fonts:          mobile.Eval.Fonts,
		}
	}

	if c.out.Screenshots {
		c.saveScreenshots(snap, desktop, mobile)
	}

	c.log.Info("crawl complete",
		"url", url,
		"status", snap.StatusCode,
		"load_time_ms", snap.LoadTimeMS,
		"images", len(snap.Images),
		"forms", len(snap.Forms),
		"console_errors", len(snap.ConsoleErrors),
		"mobile", snap.HasMobile(),
	)
	return snap, nil
}

// saveScreenshots writes captured screenshots to the output directory.
// Failures are logged and dropped; a missing screenshot never fails a crawl.
func (c *Crawler) saveScreenshots(snap *models.PageSnapshot, desktop, mobile *loadResult) {
	if err := os.MkdirAll(c.out.Dir, 0o755); err != nil {
		c.log.Warn("screenshot dir", "error", err)
		return
	}
	if desktop != nil && len(desktop.Screenshot) > 0 {
		path := filepath.Join(c.out.Dir, "screenshot_desktop.png")
		if err := os.WriteFile(path, desktop.Screenshot, 0o644); err != nil {
			c.log.Warn("save desktop screenshot", "error", err)
		} else {
			snap.ScreenshotDesktop = path
		}
	}
	if mobile != nil && len(mobile.Screenshot) > 0 {
		path := filepath.Join(c.out.Dir, "screenshot_mobile.png")
		if err := os.WriteFile(path, mobile.Screenshot, 0o644); err != nil {
			c.log.Warn("save mobile screenshot", "error", err)
		} else {
			snap.ScreenshotMobile = path
		}
	}
}
