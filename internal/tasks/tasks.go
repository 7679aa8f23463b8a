package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/sonora/internal/models"
	"golang.org/x/time/rate"
)

// PrecacheOpts contains configuration for a precache run.
type PrecacheOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max 10)
	RateLimit  float64 // Requests per second (default: 10)
}

// AssetResult is the outcome of fetching one asset.
type AssetResult struct {
	URL   string
	Entry models.CacheEntry
	Error error
}

// PrecacheResult holds every asset outcome in manifest order.
type PrecacheResult struct {
	Partition string
	Total     int
	Succeeded int
	Failed    int
	Results   []AssetResult
}

// Entries returns the fetched entries in manifest order.
func (r *PrecacheResult) Entries() []models.CacheEntry {
	out := make([]models.CacheEntry, 0, r.Succeeded)
	for _, res := range r.Results {
		if res.Error == nil {
			out = append(out, res.Entry)
		}
	}
	return out
}

// Err joins the per-asset failures, or returns nil when every asset was fetched.
func (r *PrecacheResult) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.URL, res.Error))
		}
	}
	return errors.Join(errs...)
}

// Precacher downloads assets for a cache partition.
type Precacher struct {
	client *http.Client
}

// NewPrecacher creates a Precacher. A nil client uses [http.DefaultClient].
func NewPrecacher(client *http.Client) *Precacher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Precacher{client: client}
}

type precacheJob struct {
	index int
	url   string
}

type precacheDone struct {
	index  int
	result AssetResult
}

// Run fetches every url with a rate-limited worker pool. Only a 200 counts as success.
//
// The returned error is non-nil only when ctx ends before every asset was attempted.
func (p *Precacher) Run(ctx context.Context, prog chan<- ProgressUpdate, partition string, urls []string, opts PrecacheOpts) (*PrecacheResult, error) {
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	result := &PrecacheResult{
		Partition: partition,
		Total:     len(urls),
		Results:   make([]AssetResult, len(urls)),
	}
	if len(urls) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan precacheJob, len(urls))
	done := make(chan precacheDone, len(urls))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg, partition, jobs, done)
	}

	go func() {
		defer close(jobs)
		Send(prog, fetchingAssetsUpdate(len(urls), partition))
		for i, u := range urls {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- precacheJob{index: i, url: u}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for d := range done {
		completed++
		result.Results[d.index] = d.result

		if d.result.Error == nil {
			result.Succeeded++
			Send(prog, assetCompletedUpdate(completed, len(urls), d.result))
		} else {
			result.Failed++
			Send(prog, assetFailedUpdate(completed, len(urls), d.result))
		}
	}

	if completed < len(urls) {
		return result, fmt.Errorf("precache interrupted after %d of %d assets: %w", completed, len(urls), ctx.Err())
	}
	return result, nil
}

// worker is a worker goroutine that fetches assets from the jobs channel.
func (p *Precacher) worker(ctx context.Context, wg *sync.WaitGroup, partition string, jobs <-chan precacheJob, done chan<- precacheDone) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		done <- precacheDone{index: job.index, result: p.fetch(ctx, partition, job.url)}
	}
}

func (p *Precacher) fetch(ctx context.Context, partition, url string) AssetResult {
	res := AssetResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		res.Error = fmt.Errorf("failed to create request: %w", err)
		return res
	}

	resp, err := p.client.Do(req)
	if err != nil {
		res.Error = fmt.Errorf("request failed: %w", err)
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		res.Error = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return res
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("failed to read response: %w", err)
		return res
	}

	res.Entry = models.CacheEntry{
		Partition: partition,
		URL:       url,
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      body,
	}
	return res
}
