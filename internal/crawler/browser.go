package crawler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/pkg/models"
)

// pageEval mirrors the object built by evalScript.
type pageEval struct {
	Fonts          []string               `json:"fonts"`
	Images         []models.Image         `json:"images"`
	StickyElements []models.StickyElement `json:"sticky_elements"`
	CTAButtons     []models.CTAButton     `json:"cta_buttons"`
}

// loadResult is everything one browser load produces.
type loadResult struct {
	HTML            string
	Eval            pageEval
	ConsoleErrors   []models.ConsoleEntry
	ConsoleWarnings []models.ConsoleEntry
	NetworkRequests []models.NetworkRequest
	RedirectChain   []string
	Compression     string
	StatusCode      int
	FinalURL        string
	LoadTimeMS      int64
	Screenshot      []byte
}

// eventCollector accumulates CDP events. Listener callbacks run on the
// browser event goroutine, so every access is mutex-guarded.
type eventCollector struct {
	mu              sync.Mutex
	targetURL       string
	consoleErrors   []models.ConsoleEntry
	consoleWarnings []models.ConsoleEntry
	requests        []models.NetworkRequest
	redirects       []string
	methods         map[network.RequestID]string
	compression     string
	statusCode      int
}

func newEventCollector(targetURL string) *eventCollector {
	return &eventCollector{
		targetURL: strings.TrimRight(targetURL, "/"),
		methods:   map[network.RequestID]string{},
	}
}

func (c *eventCollector) listen(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		c.mu.Lock()
		c.methods[e.RequestID] = e.Request.Method
		if e.Type == network.ResourceTypeDocument {
			c.redirects = append(c.redirects, e.Request.URL)
		}
		c.mu.Unlock()
	case *network.EventResponseReceived:
		c.onResponse(e)
	case *runtime.EventConsoleAPICalled:
		c.onConsole(e)
	case *runtime.EventExceptionThrown:
		c.onException(e)
	}
}

func (c *eventCollector) onResponse(e *network.EventResponseReceived) {
	size := headerInt64(e.Response.Headers, "content-length")
	if size == 0 {
		size = int64(e.Response.EncodedDataLength)
	}
	req := models.NetworkRequest{
		URL:          e.Response.URL,
		Status:       int(e.Response.Status),
		ResourceType: strings.ToLower(string(e.Type)),
		Size:         size,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	req.Method = c.methods[e.RequestID]
	c.requests = append(c.requests, req)
	if strings.TrimRight(e.Response.URL, "/") == c.targetURL && e.Type == network.ResourceTypeDocument {
		c.statusCode = int(e.Response.Status)
		enc := headerString(e.Response.Headers, "content-encoding")
		switch {
		case strings.Contains(enc, "br"):
			c.compression = "br"
		case strings.Contains(enc, "gzip"):
			c.compression = "gzip"
		}
	}
}

func (c *eventCollector) onConsole(e *runtime.EventConsoleAPICalled) {
	var level string
	switch e.Type {
	case runtime.APITypeError:
		level = "error"
	case runtime.APITypeWarning:
		level = "warning"
	default:
		return
	}
	var parts []string
	for _, arg := range e.Args {
		if arg.Description != "" {
			parts = append(parts, arg.Description)
		} else if len(arg.Value) > 0 {
			parts = append(parts, string(arg.Value))
		}
	}
	entry := models.ConsoleEntry{Type: level, Text: strings.Join(parts, " ")}

	c.mu.Lock()
	defer c.mu.Unlock()
	if level == "error" {
		c.consoleErrors = append(c.consoleErrors, entry)
	} else {
		c.consoleWarnings = append(c.consoleWarnings, entry)
	}
}

func (c *eventCollector) onException(e *runtime.EventExceptionThrown) {
	d := e.ExceptionDetails
	text := d.Text
	if d.Exception != nil && d.Exception.Description != "" {
		text = d.Exception.Description
	}
	entry := models.ConsoleEntry{
		Type: "error",
		Text: text,
		URL:  d.URL,
		Line: d.LineNumber,
	}
	c.mu.Lock()
	c.consoleErrors = append(c.consoleErrors, entry)
	c.mu.Unlock()
}

func headerString(h network.Headers, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return strings.ToLower(s)
			}
		}
	}
	return ""
}

func headerInt64(h network.Headers, key string) int64 {
	s := headerString(h, key)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// viewport selects which device profile a load emulates.
type viewport struct {
	Width     int
	Height    int
	Mobile    bool
	UserAgent string
}

// loadPage navigates one fresh browser tab to url at the given viewport and
// captures the full load result.
func loadPage(allocCtx context.Context, cfg config.BrowserConfig, url string, vp viewport, screenshot bool) (*loadResult, error) {
	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, cfg.NavigationTimeout.Duration+cfg.SettleDelay.Duration)
	defer cancelTimeout()

	collector := newEventCollector(url)
	chromedp.ListenTarget(tabCtx, collector.listen)

	res := &loadResult{}
	start := time.Now()

	var emulateOpts []chromedp.EmulateViewportOption
	if vp.Mobile {
		emulateOpts = append(emulateOpts, chromedp.EmulateMobile)
	}
	tasks := []chromedp.Action{
		network.Enable(),
		runtime.Enable(),
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height), emulateOpts...),
	}
	if vp.UserAgent != "" {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetUserAgentOverride(vp.UserAgent).Do(ctx)
		}))
	}
	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.Sleep(cfg.SettleDelay.Duration),
		chromedp.ActionFunc(func(context.Context) error {
			// load time covers navigation and settle, not extraction
			res.LoadTimeMS = time.Since(start).Milliseconds()
			return nil
		}),
		chromedp.Location(&res.FinalURL),
		chromedp.OuterHTML("html", &res.HTML),
		chromedp.Evaluate(evalScript, &res.Eval),
	)
	if screenshot {
		tasks = append(tasks, chromedp.FullScreenshot(&res.Screenshot, 90))
	}

	if err := chromedp.Run(tabCtx, tasks...); err != nil {
		return nil, fmt.Errorf("load %s (%dx%d): %w", url, vp.Width, vp.Height, err)
	}

	collector.mu.Lock()
	res.ConsoleErrors = collector.consoleErrors
	res.ConsoleWarnings = collector.consoleWarnings
	res.NetworkRequests = collector.requests
	res.RedirectChain = collector.redirects
	res.Compression = collector.compression
	res.StatusCode = collector.statusCode
	collector.mu.Unlock()

	return res, nil
}
