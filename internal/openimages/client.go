// Package openimages queries the Open Images dataset: its boxable class
// taxonomy, the human-verified image labels of a split, and the images
// themselves.
package openimages

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/labels"
)

const (
	DefaultClassesURL = "https://storage.googleapis.com/openimages/v7/oidv7-class-descriptions-boxable.csv"
	DefaultLabelsURL  = "https://storage.googleapis.com/openimages/v5/%s-annotations-human-imagelabels-boxable.csv"
	DefaultImagesURL  = "https://open-images-dataset.s3.amazonaws.com/%s/%s.jpg"

	DefaultSplit = "validation"
)

// Splits lists the dataset splits that have label files
var Splits = []string{"train", "validation", "test"}

// Options configures the client
type Options struct {
	ClassesURL string // CSV of LabelName,DisplayName
	LabelsURL  string // Format string taking the split
	ImagesURL  string // Format string taking the split and the image id
	CacheDir   string // Keeps downloaded CSV files when set
}

// DefaultOptions returns the public dataset locations
func DefaultOptions() *Options {
	return &Options{
		ClassesURL: DefaultClassesURL,
		LabelsURL:  DefaultLabelsURL,
		ImagesURL:  DefaultImagesURL,
	}
}

// Client talks to the Open Images buckets
type Client struct {
	opts    *Options
	fetcher *fetch.Fetcher
}

// NewClient creates a client. A nil options value uses DefaultOptions.
func NewClient(opts *Options, fetcher *fetch.Fetcher) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if fetcher == nil {
		fetcher = fetch.New(nil)
	}
	return &Client{opts: opts, fetcher: fetcher}
}

// Classes maps class display names ("Dog", "Ice cream") to their label ids
// ("/m/0bt9lr")
type Classes map[string]string

// Taxonomy returns the display names as a label taxonomy
func (c Classes) Taxonomy() labels.Taxonomy {
	t := make(labels.Taxonomy, len(c))
	for name := range c {
		t[name] = struct{}{}
	}
	return t
}

// Classes downloads the boxable class descriptions
func (c *Client) Classes(ctx context.Context) (Classes, error) {
	body, err := c.openCSV(ctx, c.opts.ClassesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch class descriptions: %w", err)
	}
	defer body.Close()

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1

	classes := make(Classes)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse class descriptions: %w", err)
		}
		if len(rec) < 2 || rec[0] == "LabelName" {
			continue
		}
		classes[strings.TrimSpace(rec[1])] = strings.TrimSpace(rec[0])
	}

	if len(classes) == 0 {
		return nil, fmt.Errorf("class descriptions at %s are empty", c.opts.ClassesURL)
	}
	return classes, nil
}

// Samples returns up to perLabel image ids for each requested label from
// the positive, human-verified labels of split. No more than maxSamples
// ids are returned overall (0 = no cap). The result is keyed by label id.
func (c *Client) Samples(ctx context.Context, labelIDs []string, perLabel, maxSamples int, split string) (map[string][]string, error) {
	if split == "" {
		split = DefaultSplit
	}
	if !slices.Contains(Splits, split) {
		return nil, fmt.Errorf("unknown split %q (want one of %s)", split, strings.Join(Splits, ", "))
	}

	wanted := make(map[string]bool, len(labelIDs))
	for _, id := range labelIDs {
		wanted[id] = true
	}
	samples := make(map[string][]string, len(labelIDs))
	if len(wanted) == 0 || perLabel <= 0 {
		return samples, nil
	}

	body, err := c.openCSV(ctx, fmt.Sprintf(c.opts.LabelsURL, split))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s labels: %w", split, err)
	}
	defer body.Close()

	r := csv.NewReader(body)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	total, full := 0, 0
	for full < len(wanted) && (maxSamples <= 0 || total < maxSamples) {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s labels: %w", split, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// ImageID,Source,LabelName,Confidence
		if len(rec) < 4 || rec[3] != "1" || !wanted[rec[2]] {
			continue
		}
		label := rec[2]
		if len(samples[label]) >= perLabel {
			continue
		}

		samples[label] = append(samples[label], rec[0])
		total++
		if len(samples[label]) == perLabel {
			full++
		}
	}

	return samples, nil
}

// ImageURL returns the download location of an image
func (c *Client) ImageURL(split, imageID string) string {
	return fmt.Sprintf(c.opts.ImagesURL, split, imageID)
}

// DownloadImage saves one image to dst and returns its size
func (c *Client) DownloadImage(ctx context.Context, split, imageID, dst string) (int64, error) {
	return c.fetcher.ToFile(ctx, c.ImageURL(split, imageID), dst)
}

// openCSV streams url, going through the cache directory when one is set
func (c *Client) openCSV(ctx context.Context, url string) (io.ReadCloser, error) {
	csvFetcher := c.fetcher.WithMaxSize(0)
	if c.opts.CacheDir == "" {
		return csvFetcher.Open(ctx, url)
	}

	cached := filepath.Join(c.opts.CacheDir, path.Base(url))
	if !fetch.Exists(cached) {
		if _, err := csvFetcher.ToFile(ctx, url, cached); err != nil {
			return nil, err
		}
	}
	return os.Open(cached)
}
