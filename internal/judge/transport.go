package judge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"
)

// browser-like UA; the judge rejects obviously non-browser clients.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// ResponseInfo carries response details.
type ResponseInfo struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// Transport wraps HTTP requests against the judge site. Cookie header and
// anti-forgery token come from the injected providers on every request, so
// a session replacement is picked up immediately.
type Transport struct {
	baseURL      string
	timeout      time.Duration
	cookieHeader func() string
	csrfToken    func() string
}

func NewTransport(baseURL string, timeout time.Duration, cookieHeader, csrfToken func() string) *Transport {
	return &Transport{
		baseURL:      baseURL,
		timeout:      timeout,
		cookieHeader: cookieHeader,
		csrfToken:    csrfToken,
	}
}

func (t *Transport) BaseURL() string {
	return t.baseURL
}

func (t *Transport) SetBaseURL(baseURL string) {
	t.baseURL = baseURL
}

func (t *Transport) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		t.timeout = timeout
	}
}

// Do issues one request. referer may be empty; body may be nil.
//
// Accept-Encoding is set by hand to look like a browser, which switches off
// net/http's transparent decompression, so gzip bodies are inflated here.
func (t *Transport) Do(ctx context.Context, method, path, referer string, body []byte) (ResponseInfo, error) {
	var info ResponseInfo
	client := &http.Client{Timeout: t.timeout}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", t.baseURL, path), reader)
	if err != nil {
		return info, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", t.baseURL)
	req.Header.Set("Accept-Encoding", "gzip")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	if t.cookieHeader != nil {
		if cookie := t.cookieHeader(); cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
	}
	if t.csrfToken != nil {
		if token := t.csrfToken(); token != "" {
			req.Header.Set("x-csrftoken", token)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return info, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	info.Headers = resp.Header

	bodyReader := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return info, fmt.Errorf("open gzip body failed: %w", err)
		}
		defer func() { _ = gz.Close() }()
		bodyReader = gz
	}
	bodyBytes, err := io.ReadAll(bodyReader)
	if err != nil {
		return info, fmt.Errorf("read response body failed: %w", err)
	}
	info.Body = bodyBytes
	return info, nil
}
