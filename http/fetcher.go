// Package http provides an HTTP-based implementation of prettyrfc.Fetcher
// that downloads document source from the RFC archive.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/prettyrfc"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultBaseURL is the archive that serves rfc<n>.xml and rfc<n>.txt.
const DefaultBaseURL = "https://www.rfc-editor.org/rfc/"

// DefaultFormats lists source formats in order of preference.
var DefaultFormats = []string{"xml", "txt"}

// DefaultMaxSourceSize bounds the response body; the largest RFCs are a few MB.
const DefaultMaxSourceSize = 32 << 20

// Ensure Fetcher implements prettyrfc.Fetcher at compile time.
var _ prettyrfc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves document source from the archive using HTTP requests.
// It tries each format in turn; a document is missing only when every
// format answers 404 or 410. It never retries.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	baseURL string
	formats []string
	limiter *rate.Limiter
	maxSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBaseURL sets the archive base URL. A trailing slash is added if missing.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		f.baseURL = u
	}
}

// WithFormats sets the source formats to try, e.g. "xml", "txt".
func WithFormats(formats ...string) Option {
	return func(f *Fetcher) {
		f.formats = formats
	}
}

// WithRateLimit limits requests to the archive to rps per second.
// A value <= 0 disables limiting.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxSourceSize sets the largest response body accepted, in bytes.
// Larger bodies fail with a FetchError instead of being truncated.
func WithMaxSourceSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		baseURL: DefaultBaseURL,
		formats: DefaultFormats,
		maxSize: DefaultMaxSourceSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// URL returns the archive URL of id in the given format.
func (f *Fetcher) URL(id prettyrfc.DocumentID, format string) string {
	return fmt.Sprintf("%srfc%d.%s", f.baseURL, id.Number(), format)
}

// Fetch retrieves the source of id from the archive.
func (f *Fetcher) Fetch(ctx context.Context, id prettyrfc.DocumentID) (string, error) {
	for _, format := range f.formats {
		source, err := f.fetchFormat(ctx, id, format)
		if errors.Is(err, errMissing) {
			continue
		}
		if err != nil {
			return "", &prettyrfc.FetchError{ID: id, Err: err}
		}
		return source, nil
	}
	return "", prettyrfc.Errorf(prettyrfc.ENOTFOUND, "%s not found in archive", id.DisplayName())
}

var errMissing = errors.New("missing")

func (f *Fetcher) fetchFormat(ctx context.Context, id prettyrfc.DocumentID, format string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	url := f.URL(id, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusGone:
		return "", errMissing
	default:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxSize {
		return "", fmt.Errorf("response for %s exceeds %d bytes", url, f.maxSize)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", fmt.Errorf("empty response for %s", url)
	}

	return string(body), nil
}
