// Package fetch downloads remote files over HTTP with a size cap.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrTooLarge is returned when a body exceeds Options.MaxSizeBytes
var ErrTooLarge = errors.New("download exceeds maximum size")

// Options configures download behavior
type Options struct {
	MaxSizeBytes int64         // Maximum body size (0 = no limit)
	Timeout      time.Duration // Wait for response headers; also bounds the whole request when capped (0 = none)
	UserAgent    string
}

// DefaultOptions returns defaults suitable for single images
func DefaultOptions() *Options {
	return &Options{
		MaxSizeBytes: 10 * 1024 * 1024, // 10MB
		Timeout:      60 * time.Second,
		UserAgent:    "babycards",
	}
}

// StatusError reports a non-200 response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download of %s failed with status %d", e.URL, e.StatusCode)
}

// Fetcher downloads URLs
type Fetcher struct {
	client  *http.Client
	options *Options
}

// New creates a fetcher. A nil options value uses DefaultOptions.
func New(options *Options) *Fetcher {
	if options == nil {
		options = DefaultOptions()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = options.Timeout
	return &Fetcher{
		client:  &http.Client{Transport: transport, Timeout: clientTimeout(options)},
		options: options,
	}
}

// clientTimeout bounds the whole exchange of capped downloads only.
// Uncapped bodies can take minutes and stop on context cancellation.
func clientTimeout(options *Options) time.Duration {
	if options.MaxSizeBytes <= 0 {
		return 0
	}
	return options.Timeout
}

// WithMaxSize returns a copy of f with another size cap
func (f *Fetcher) WithMaxSize(n int64) *Fetcher {
	opts := *f.options
	opts.MaxSizeBytes = n
	client := *f.client
	client.Timeout = clientTimeout(&opts)
	return &Fetcher{client: &client, options: &opts}
}

func (f *Fetcher) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	if f.options.UserAgent != "" {
		req.Header.Set("User-Agent", f.options.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// Open returns the body of url. The caller closes it.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	return f.open(ctx, url)
}

// Bytes downloads url into memory
func (f *Fetcher) Bytes(ctx context.Context, url string) ([]byte, error) {
	body, err := f.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if f.options.MaxSizeBytes <= 0 {
		return io.ReadAll(body)
	}

	data, err := io.ReadAll(io.LimitReader(body, f.options.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > f.options.MaxSizeBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", url, ErrTooLarge, f.options.MaxSizeBytes)
	}
	return data, nil
}

// ToFile downloads url to outputPath and returns the bytes written. A
// partial file is removed on failure.
func (f *Fetcher) ToFile(ctx context.Context, url, outputPath string) (int64, error) {
	body, err := f.open(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return WriteFile(outputPath, body, f.options.MaxSizeBytes)
}

// WriteFile copies r to path, creating parent directories. When maxSize is
// positive a longer stream is rejected with ErrTooLarge. The data goes to
// path+".tmp" first and is renamed into place once complete, so path only
// ever holds a whole file.
func WriteFile(path string, r io.Reader, maxSize int64) (int64, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	var written int64
	if maxSize > 0 {
		written, err = io.Copy(file, io.LimitReader(r, maxSize+1))
		if err == nil && written > maxSize {
			err = fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxSize)
		}
	} else {
		written, err = io.Copy(file, r)
	}

	if cerr := file.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return written, nil
}

// Exists reports whether path is an existing regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
