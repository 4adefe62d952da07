// Package fetch downloads job postings from the web and extracts their readable text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/recruiting-platform/internal/parsing"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; fitscore/1.0)"

// DefaultMaxBytes caps the size of a downloaded page.
const DefaultMaxBytes = 5 << 20

// Posting is a fetched job posting.
type Posting struct {
	URL        string    `json:"url"`
	Platform   Platform  `json:"platform"`
	Text       string    `json:"text"`
	StatusCode int       `json:"status_code"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Fetcher retrieves job postings by URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Posting, error)
}

// HTTPFetcher fetches postings directly over HTTP.
type HTTPFetcher struct {
	client  *http.Client
	options *Options
	now     func() time.Time
}

// NewHTTPFetcher creates a fetcher. A nil opts uses DefaultOptions.
func NewHTTPFetcher(opts *Options) *HTTPFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		options: opts,
		now:     time.Now,
	}
}

// Fetch downloads rawURL and extracts the posting text using selectors for
// the detected job board.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range f.options.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	posting := &Posting{
		URL:        rawURL,
		Platform:   DetectPlatform(rawURL),
		StatusCode: resp.StatusCode,
		FetchedAt:  f.now(),
	}
	if resp.StatusCode != http.StatusOK {
		return posting, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.options.MaxBytes+1))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.options.MaxBytes {
		return nil, &Error{URL: rawURL, Message: fmt.Sprintf("page exceeds %d bytes", f.options.MaxBytes)}
	}

	text, err := parsing.ExtractText(string(body),
		PlatformContentSelectors(posting.Platform),
		PlatformNoiseSelectors(posting.Platform),
	)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
	}
	if text == "" {
		return nil, &Error{URL: rawURL, Message: "no readable text", Cause: ErrEmptyPosting}
	}
	posting.Text = text
	return posting, nil
}

// ErrEmptyPosting is returned when a page has no extractable text.
var ErrEmptyPosting = errors.New("empty posting")
