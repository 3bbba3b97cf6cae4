// Package quickdraw downloads Google Quick Draw category files and renders
// their drawings to PNG sample images.
package quickdraw

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/fetch"
	"github.com/dustin/go-humanize"
)

const (
	DefaultDataURL       = "https://storage.googleapis.com/quickdraw_dataset/full/simplified/%s.ndjson"
	DefaultCategoriesURL = "https://raw.githubusercontent.com/googlecreativelab/quickdraw-dataset/master/categories.txt"
)

// Options configures a Downloader
type Options struct {
	DataURL       string // Format string taking the escaped category name
	CategoriesURL string
}

// Downloader fetches category files into a data directory
type Downloader struct {
	dir     string
	opts    Options
	fetcher *fetch.Fetcher
	log     *slog.Logger
}

// NewDownloader creates a downloader storing files in dir
func NewDownloader(dir string, opts Options, fetcher *fetch.Fetcher, log *slog.Logger) *Downloader {
	if opts.DataURL == "" {
		opts.DataURL = DefaultDataURL
	}
	if opts.CategoriesURL == "" {
		opts.CategoriesURL = DefaultCategoriesURL
	}
	if fetcher == nil {
		fetcher = fetch.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	// Category files run to hundreds of megabytes
	return &Downloader{dir: dir, opts: opts, fetcher: fetcher.WithMaxSize(0), log: log}
}

// Path returns where the file of a category is stored
func (d *Downloader) Path(category string) string {
	return filepath.Join(d.dir, category+".ndjson")
}

// DownloadCategory fetches the simplified drawings of a category and
// returns the local file. A file that is already present is reused.
func (d *Downloader) DownloadCategory(ctx context.Context, category string) (string, error) {
	path := d.Path(category)
	if fetch.Exists(path) {
		d.log.Debug("category already downloaded", slog.String("category", category))
		return path, nil
	}

	src := fmt.Sprintf(d.opts.DataURL, url.PathEscape(category))
	n, err := d.fetcher.ToFile(ctx, src, path)
	if err != nil {
		return "", fmt.Errorf("failed to download category %q: %w", category, err)
	}

	d.log.Info("category downloaded",
		slog.String("category", category),
		slog.String("size", humanize.Bytes(uint64(n))),
	)
	return path, nil
}

// Categories returns the names of all dataset categories
func (d *Downloader) Categories(ctx context.Context) ([]string, error) {
	body, err := d.fetcher.Open(ctx, d.opts.CategoriesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer body.Close()

	var names []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return names, nil
}

// ExtractSamples renders the first n recognized drawings of an ndjson file
// into dir as <category>_000.png, <category>_001.png, ... Existing images
// are kept. It returns the paths of all n samples.
func ExtractSamples(file, dir string, n int, opts RenderOptions) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	drawings, err := ReadFile(file, n)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sample directory: %w", err)
	}

	category := internal.WordSlug(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	paths := make([]string, 0, len(drawings))
	for i, d := range drawings {
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.png", category, i))
		if !fetch.Exists(path) {
			if err := writePNG(path, d, opts); err != nil {
				return paths, err
			}
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, d Drawing, opts RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample: %w", err)
	}
	if err := png.Encode(f, Render(d, opts)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
