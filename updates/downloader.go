package updates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single fetch when no other timeout is configured
const DefaultTimeout = 30 * time.Second

// ErrUnexpectedStatus is returned when the remote answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// Fetcher downloads the text of a remote config file
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Downloader fetches remote files over HTTP
type Downloader struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewDownloader creates a new Downloader with the given timeout
func NewDownloader(timeout time.Duration, userAgent string) *Downloader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Downloader{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: userAgent,
	}
}

// Fetch performs a single GET request and returns the response body.
// There are no retries, a failure is reported to the caller as is.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, error) {
	data, err := d.download(ctx, url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// download is a helper method that performs the actual HTTP download
func (d *Downloader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	return data, nil
}
