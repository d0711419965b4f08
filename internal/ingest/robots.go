package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const robotsMaxBytes = 512 * 1024

// RobotsChecker fetches and caches robots.txt policies per origin.
// Origins whose robots.txt cannot be retrieved are treated as allowing
// everything, matching common crawler behavior.
type RobotsChecker struct {
	mu        sync.RWMutex
	policies  map[string]*robotstxt.RobotsData
	client    *http.Client
	userAgent string
}

// NewRobotsChecker creates a checker identifying itself as userAgent.
func NewRobotsChecker(timeout time.Duration, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		policies:  make(map[string]*robotstxt.RobotsData),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Allowed reports whether the URL may be fetched and any crawl delay the
// site requests for our agent.
func (rc *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}

	policy, err := rc.policy(ctx, parsed.Scheme+"://"+parsed.Host)
	if err != nil {
		// An unreachable robots.txt does not block the fetch.
		return true, 0, nil
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	var delay time.Duration
	if group := policy.FindGroup(rc.userAgent); group != nil {
		delay = group.CrawlDelay
	}

	return policy.TestAgent(path, rc.userAgent), delay, nil
}

// policy returns the cached robots.txt data for an origin, fetching it
// on first use.
func (rc *RobotsChecker) policy(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	rc.mu.RLock()
	policy, ok := rc.policies[origin]
	rc.mu.RUnlock()
	if ok {
		return policy, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return nil, err
	}

	// FromStatusAndBytes maps 404 to allow-all and 401/403 to deny-all.
	policy, err = robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}

	rc.mu.Lock()
	rc.policies[origin] = policy
	rc.mu.Unlock()

	return policy, nil
}
