// Package fetch retrieves job posting pages over HTTP and reduces their HTML to text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Defaults for Options
const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeEvaluator/1.0)"
	DefaultMaxBytes  = 2 << 20
)

// Result holds the raw page of a fetch
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching
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

// Options configures a Fetcher
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// MaxBytes caps the body read; larger pages fail
	MaxBytes int64
	Headers  map[string]string
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Fetcher performs GET requests for HTML pages. It is safe for concurrent use.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a Fetcher. Zero option fields fall back to the defaults.
func New(opts *Options) *Fetcher {
	o := *DefaultOptions()
	if opts != nil {
		if opts.Timeout > 0 {
			o.Timeout = opts.Timeout
		}
		if opts.UserAgent != "" {
			o.UserAgent = opts.UserAgent
		}
		if opts.MaxBytes > 0 {
			o.MaxBytes = opts.MaxBytes
		}
		o.Headers = opts.Headers
	}
	return &Fetcher{
		client: &http.Client{Timeout: o.Timeout},
		opts:   o,
	}
}

// Get retrieves the page at rawURL. Only http and https URLs are accepted.
// On a non-200 status the partial result is returned alongside the error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Result, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")
	for key, value := range f.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, &Error{URL: rawURL, Message: fmt.Sprintf("response larger than %d bytes", f.opts.MaxBytes)}
	}

	result := &Result{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// ValidateURL rejects anything that is not an absolute http(s) URL
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &Error{URL: rawURL, Message: "invalid URL"}
	}
	return nil
}

// baseNoise is removed from every page before content selection
const baseNoise = "nav, footer, header, script, style, noscript, iframe, svg, .ad, .advertisement, .sidebar, .popup"

// ExtractMainText parses HTML and returns the text of the first element matching a
// content selector, falling back to the body. Noise elements are removed first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(baseNoise).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	// Block elements end a line so list items stay separate
	content.Find("p, li, h1, h2, h3, h4, h5, h6, br, div, tr").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "li" {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})

	return compactLines(content.Text()), nil
}

// Title returns the trimmed document title, or "" when absent
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// compactLines trims every line and drops empty ones
func compactLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" && line != "-" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
