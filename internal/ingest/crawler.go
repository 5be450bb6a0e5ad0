package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	userAgent    = "typeracer-ingest/0.1"
	fetchTimeout = 20 * time.Second
	// Cap on response bodies; typing passages never need more.
	maxBodyBytes = 4 << 20
)

// Result is the outcome of fetching one URL.
type Result struct {
	URL      string
	Passages []string
	Err      error
}

// Fetcher downloads documents over a fixed-size worker pool.
type Fetcher struct {
	client  *http.Client
	workers int
}

func NewFetcher(workers int) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		client:  &http.Client{Timeout: fetchTimeout},
		workers: workers,
	}
}

// FetchAll fetches every URL and extracts its passages. Results preserve the
// input order; individual failures are reported per URL, never fatal.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < f.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = f.fetchOne(ctx, urls[i])
			}
		}()
	}
	for i := range urls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{URL: url, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{URL: url, Err: fmt.Errorf("fetching: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	passages := ExtractPassages(string(body))
	log.Printf("[Ingest] Fetched %d passages from %s\n", len(passages), url)
	return Result{URL: url, Passages: passages}
}

// ReadURLList parses a URL-per-line file, skipping blank lines and stripping
// comments introduced by '#'.
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if head, _, found := strings.Cut(line, "#"); found {
			line = strings.TrimSpace(head)
		}
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading url list: %w", err)
	}
	return urls, nil
}
