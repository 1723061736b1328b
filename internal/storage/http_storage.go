package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

// ErrRedirectRejected is returned when a redirect target fails the redirect check
var ErrRedirectRejected = errors.New("redirect target rejected")

const maxRedirects = 3

// HTTPImageFetcher downloads image bytes with retries
type HTTPImageFetcher struct {
	client        *http.Client
	maxBytes      int64
	backoff       time.Duration
	redirectCheck func(target string) error
}

// FetcherOption configures an HTTPImageFetcher
type FetcherOption func(*HTTPImageFetcher)

// WithRedirectCheck validates every redirect target before it is followed
func WithRedirectCheck(check func(target string) error) FetcherOption {
	return func(h *HTTPImageFetcher) {
		h.redirectCheck = check
	}
}

// NewHTTPImageFetcher creates an HTTP image fetcher. timeout bounds a single attempt
// and maxBytes caps the body size.
func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64, opts ...FetcherOption) *HTTPImageFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	h := &HTTPImageFetcher{
		maxBytes: maxBytes,
		backoff:  time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.client = &http.Client{
		Transport:     transport,
		Timeout:       timeout,
		CheckRedirect: h.checkRedirect,
	}
	return h
}

func (h *HTTPImageFetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: too many redirects (limit: %d)", ErrRedirectRejected, maxRedirects)
	}
	if h.redirectCheck != nil {
		if err := h.redirectCheck(req.URL.String()); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRedirectRejected, req.URL.Redacted(), err)
		}
	}
	return nil
}

// Source returns an ImageSource for imageURL backed by this fetcher
func (h *HTTPImageFetcher) Source(imageURL string) ImageSource {
	return &httpSource{fetcher: h, url: imageURL}
}

// FetchBytes downloads the body of imageURL. Three attempts are made; 4xx
// responses are not retried.
func (h *HTTPImageFetcher) FetchBytes(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")
	req.Header.Set("User-Agent", "Card-Inspector/1.0")

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * h.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retry, err := h.attempt(req)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, fmt.Errorf("failed to fetch image after 3 attempts: %w", lastErr)
}

func (h *HTTPImageFetcher) attempt(req *http.Request) (body []byte, retry bool, err error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, !errors.Is(err, ErrRedirectRejected), err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	reader := io.Reader(resp.Body)
	if h.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, h.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, false, fmt.Errorf("image exceeds %d bytes", h.maxBytes)
	}
	return data, false, nil
}

type httpSource struct {
	fetcher *HTTPImageFetcher
	url     string
}

func (s *httpSource) Label() string {
	parsed, err := url.Parse(s.url)
	if err != nil || parsed.Path == "" {
		return s.url
	}
	return path.Base(parsed.Path)
}

func (s *httpSource) Load(ctx context.Context) (*ImageData, error) {
	data, err := s.fetcher.FetchBytes(ctx, s.url)
	if err != nil {
		return nil, unreadable("fetch", err)
	}
	return &ImageData{Bytes: data, Label: s.Label(), SizeBytes: int64(len(data))}, nil
}
