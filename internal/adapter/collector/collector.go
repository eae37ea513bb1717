package collector

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"syllabi/internal/domain"
)

// Collector gathers raw text from URLs and local paths into a ResourceSet.
// URL fetches run under a bounded worker pool; file reads are sequential.
// Bodies are treated as plain text, format-specific parsing happens
// elsewhere.
type Collector struct {
	walker        *Walker
	maxConcurrent int
	maxFileBytes  int64
	client        *http.Client
	log           *slog.Logger
}

// Options configures a Collector.
type Options struct {
	Includes      []string
	Excludes      []string
	MaxConcurrent int
	MaxFileBytes  int64
	Timeout       time.Duration
	Logger        *slog.Logger
}

// New creates a collector with the given options.
func New(opts Options) *Collector {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 10 << 20
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Collector{
		walker:        NewWalker(opts.Includes, opts.Excludes),
		maxConcurrent: opts.MaxConcurrent,
		maxFileBytes:  opts.MaxFileBytes,
		client:        &http.Client{Timeout: opts.Timeout},
		log:           opts.Logger,
	}
}

// Collect fetches all URLs and reads all paths, returning a fresh
// ResourceSet. Individual fetch or read failures are logged and skipped;
// the set's stats record how many sources produced content.
func (c *Collector) Collect(urls, paths []string) (*domain.ResourceSet, error) {
	set := domain.NewResourceSet()

	urlResources := c.fetchURLs(urls)
	for _, r := range urlResources {
		if r != nil {
			set.AddURL(r)
		}
	}

	for _, path := range paths {
		if err := c.collectPath(set, path); err != nil {
			c.log.Warn("skipping path", "path", path, "error", err)
		}
	}

	total := 0
	for _, r := range set.URLs {
		total += len(r.Content)
	}
	for _, r := range set.Files {
		total += len(r.Content)
	}
	set.Stats["sources_processed"] = len(set.URLs) + len(set.Files)
	set.Stats["total_content_size"] = total

	return set, nil
}

// fetchURLs downloads all URLs with at most maxConcurrent in flight.
// Results keep input order regardless of completion order.
func (c *Collector) fetchURLs(urls []string) []*domain.Resource {
	results := make([]*domain.Resource, len(urls))
	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := c.fetchURL(url)
			if err != nil {
				c.log.Warn("failed to fetch url", "url", url, "error", err)
				return
			}
			results[i] = res
		}(i, url)
	}

	wg.Wait()
	return results
}

func (c *Collector) fetchURL(url string) (*domain.Resource, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxFileBytes))
	if err != nil {
		return nil, err
	}

	return &domain.Resource{
		ID:      url,
		Title:   url,
		Content: string(body),
		Metadata: map[string]string{
			"content_type": resp.Header.Get("Content-Type"),
		},
	}, nil
}

func (c *Collector) collectPath(set *domain.ResourceSet, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return c.collectFile(set, path, info.Size())
	}

	files, err := c.walker.Walk(path)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := c.collectFile(set, f.Path, f.Size); err != nil {
			c.log.Warn("skipping file", "path", f.Path, "error", err)
		}
	}
	return nil
}

func (c *Collector) collectFile(set *domain.ResourceSet, path string, size int64) error {
	if size > c.maxFileBytes {
		return fmt.Errorf("file exceeds size limit (%d > %d bytes)", size, c.maxFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	set.AddFile(&domain.Resource{
		ID:      abs,
		Title:   filepath.Base(path),
		Content: string(data),
	})
	return nil
}
