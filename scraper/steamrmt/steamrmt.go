package steamrmt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"skin-watcher/config"
	"skin-watcher/utils"
)

var (
	// ErrFetchFailed means the catalog page answered with a non-200 status.
	ErrFetchFailed = errors.New("failed to fetch site correctly")
	// ErrSectionNotFound means the listing section selector matched nothing.
	ErrSectionNotFound = errors.New("listing section not found")
)

// textNodesJS returns the text nodes under the element matched by the
// selector argument, in document order, whitespace-only nodes included.
const textNodesJS = `
(function(sel) {
	var root = document.querySelector(sel);
	if (!root) {
		return null;
	}
	var walker = document.createTreeWalker(root, NodeFilter.SHOW_TEXT);
	var out = [];
	while (walker.nextNode()) {
		out.push(walker.currentNode.nodeValue);
	}
	return out;
})(%s)
`

// Scraper loads the skinbuy catalog page in headless Chrome.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// FetchLines returns the flattened text of the listing section.
func (s *Scraper) FetchLines(ctx context.Context) ([]string, error) {
	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Debug("[steamrmt] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if s.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.cfg.UserAgent))
	}
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	var lines []string
	err := s.retry.Do(ctx, "fetch-catalog", func(context.Context) error {
		var err error
		lines, err = s.fetchOnce(browserCtx)
		return err
	})
	return lines, err
}

func (s *Scraper) fetchOnce(browserCtx context.Context) ([]string, error) {
	ctx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(s.cfg.FetchTimeoutSec)*time.Second)
	defer cancelTimeout()

	start := time.Now()
	resp, err := chromedp.RunResponse(ctx, chromedp.Navigate(s.cfg.SiteURL))
	if err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	s.logger.Info("[steamrmt] Fetched site with status `%d` in %v", resp.Status, time.Since(start))

	selector, err := json.Marshal(s.cfg.SectionSelector)
	if err != nil {
		return nil, fmt.Errorf("encode selector: %w", err)
	}

	var lines []string
	err = chromedp.Run(ctx,
		chromedp.WaitReady(s.cfg.SectionSelector, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(textNodesJS, selector), &lines),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp extract text: %w", err)
	}
	if lines == nil {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, s.cfg.SectionSelector)
	}

	s.logger.Debug("[steamrmt] Extracted %d text node(s)", len(lines))
	return lines, nil
}

func checkStatus(resp *network.Response) error {
	if resp == nil {
		return fmt.Errorf("%w: no response", ErrFetchFailed)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("%w: status %d %s", ErrFetchFailed, resp.Status, resp.StatusText)
	}
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
