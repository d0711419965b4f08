package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/f11-ff/terms-and-conditions-analyzer/internal/cache"
	"github.com/f11-ff/terms-and-conditions-analyzer/internal/model"
)

// Sites may request arbitrarily long crawl delays; past this point a
// CLI run is better off failing fast than hanging.
const maxCrawlDelay = 10 * time.Second

const maxFetchAttempts = 3

// fetchSleepFunc is swapped out in tests to skip real backoff waits.
var fetchSleepFunc = time.Sleep

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.code, e.status)
}

// Fetcher downloads terms-and-conditions pages over HTTP and reduces
// them to analyzable text.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker // nil when robots.txt is ignored
	pageCache  cache.Cache    // nil disables caching
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from HTTP configuration.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}

	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.Timeout, cfg.UserAgent)
	}

	return f
}

// WithCache attaches a cache for fetched page text. Cached pages are
// served without touching the network or robots.txt.
func (f *Fetcher) WithCache(c cache.Cache, ttl time.Duration) *Fetcher {
	f.pageCache = c
	f.cacheTTL = ttl
	return f
}

// Fetch retrieves a URL and returns its visible text as a document.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	if f.pageCache != nil {
		if data, ok := f.pageCache.Get(cache.Key("fetch", rawURL)); ok {
			return &Document{Source: rawURL, Kind: "url", Pages: PagesFromText(string(data))}, nil
		}
	}

	if f.robots != nil {
		allowed, delay, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
		}
		if delay > 0 {
			if delay > maxCrawlDelay {
				delay = maxCrawlDelay
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	body := io.LimitReader(resp.Body, f.maxBytes)

	var text string
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") || contentType == "" {
		text, err = VisibleText(body)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
	} else {
		data, readErr := io.ReadAll(body)
		if readErr != nil {
			return nil, fmt.Errorf("read body: %w", readErr)
		}
		text = string(data)
	}

	if f.pageCache != nil {
		_ = f.pageCache.Set(cache.Key("fetch", rawURL), []byte(text), f.cacheTTL)
	}

	return &Document{Source: rawURL, Kind: "url", Pages: PagesFromText(text)}, nil
}

// FetchWithRetry retries transient failures (network errors, 429 and
// 5xx responses) with linear backoff. Permanent failures such as 404 or
// a robots.txt denial return immediately.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		doc, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == maxFetchAttempts {
			break
		}
		fetchSleepFunc(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}

	var ue *url.Error
	return errors.As(err, &ue)
}
