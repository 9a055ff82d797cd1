package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/util"
)

// titleReadLimit caps how much of a cited page is read for its title
const titleReadLimit = 64 << 10

// SourceValidator checks that URLs cited in verdicts are reachable,
// honoring robots.txt and fetching page titles for display. Checks run
// concurrently up to maxWorkers.
type SourceValidator struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	maxWorkers int
	userAgent  string
}

// NewSourceValidator creates a validator from the outbound HTTP config
func NewSourceValidator(cfg model.HTTPConfig, maxWorkers int) *SourceValidator {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	return &SourceValidator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:     util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		maxWorkers: maxWorkers,
		userAgent:  cfg.UserAgent,
	}
}

// Validate checks every URL concurrently, preserving input order
func (v *SourceValidator) Validate(ctx context.Context, urls []string) []model.SourceStatus {
	if len(urls) == 0 {
		return []model.SourceStatus{}
	}

	results := make([]model.SourceStatus, len(urls))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, rawURL := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.SourceStatus{URL: u, Accessible: false, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = v.validateWithRetry(ctx, u)
		}(i, rawURL)
	}

	wg.Wait()
	return results
}

func (v *SourceValidator) validateSingle(ctx context.Context, rawURL string) model.SourceStatus {
	result := model.SourceStatus{URL: rawURL}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		result.Error = "not a fetchable URL"
		return result
	}

	if !v.robots.IsAllowed(ctx, rawURL) {
		result.Error = "blocked by robots.txt"
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Accessible = true
		result.Title = extractTitle(io.LimitReader(resp.Body, titleReadLimit))
	}

	return result
}

// extractTitle pulls the first <title> text from an HTML document
func extractTitle(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "title" {
				inTitle = false
			}
		}
	}
}

const maxRetries = 3

// sleepFunc is the delay between retries of transient failures
// (injectable for tests)
var sleepFunc = time.Sleep

// validateWithRetry retries transient failures with exponential backoff
func (v *SourceValidator) validateWithRetry(ctx context.Context, rawURL string) model.SourceStatus {
	var result model.SourceStatus
	for attempt := 0; attempt < maxRetries; attempt++ {
		result = v.validateSingle(ctx, rawURL)
		if !isRetryable(result) {
			return result
		}
		if attempt < maxRetries-1 {
			sleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return result
}

// isRetryable reports whether a status indicates a transient failure
func isRetryable(result model.SourceStatus) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
