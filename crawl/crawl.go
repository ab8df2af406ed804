// Package crawl prefetches documents by following their cross-references.
// Each fetched document is resolved, rendered and stored through a
// prettyrfc.DocumentResolver, so a crawl warms the source cache and the
// document store for later requests.
package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/prettyrfc"
	"golang.org/x/sync/errgroup"
)

// Crawler walks the reference graph breadth first from a set of seeds.
type Crawler struct {
	Resolver     prettyrfc.DocumentResolver
	Concurrency  int
	MaxDepth     int // 0 fetches only the seeds
	MaxDocuments int // 0 means the default limit
	RetryDelays  []time.Duration
	Logger       LogFunc
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Saved  int
	Failed int
	Bytes  int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ID        prettyrfc.DocumentID
	Depth     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

const (
	// defaultConcurrency is the number of documents resolved at once.
	defaultConcurrency = 4
	// frontierExpectedDocuments sizes the Bloom filter. The RFC series
	// has fewer than 10000 entries.
	frontierExpectedDocuments = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
	// defaultMaxDocuments limits the number of documents processed to prevent runaway crawls.
	defaultMaxDocuments = 1000
)

// crawlResult holds the outcome of resolving a single document.
type crawlResult struct {
	item Item
	doc  *prettyrfc.Document
	err  error
}

// Crawl resolves every seed, then every document they reference, level by
// level until MaxDepth is reached. Documents within a level are resolved
// concurrently; the next level is queued in reference order, so the set of
// visited documents does not depend on scheduling. Failures are counted and
// reported but do not stop the crawl. The progress callback, if provided,
// receives events as crawling proceeds.
func (c *Crawler) Crawl(ctx context.Context, seeds []prettyrfc.DocumentID, progress ProgressFunc) (*Result, error) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	maxDocuments := c.MaxDocuments
	if maxDocuments <= 0 {
		maxDocuments = defaultMaxDocuments
	}

	frontier := NewFrontier(frontierExpectedDocuments, frontierFalsePositiveRate)
	for _, id := range seeds {
		frontier.Push(id, 0)
	}

	total := frontier.Len()
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	var result Result
	var completed int
	processed := 0
	for frontier.Len() > 0 && processed < maxDocuments {
		if err := ctx.Err(); err != nil {
			return &result, err
		}

		// Everything queued belongs to the same level.
		var level []Item
		for processed+len(level) < maxDocuments {
			item, ok := frontier.Pop()
			if !ok {
				break
			}
			level = append(level, item)
		}
		processed += len(level)

		for _, r := range c.resolveLevel(ctx, level, concurrency) {
			completed++
			if r.err != nil {
				result.Failed++
				if progress != nil {
					progress(ProgressEvent{
						Type:      ProgressFailed,
						Completed: completed,
						Total:     total,
						ID:        r.item.ID,
						Depth:     r.item.Depth,
						Error:     r.err,
					})
				}
				continue
			}

			result.Saved++
			result.Bytes += len(r.doc.RawSource)

			if r.item.Depth < c.MaxDepth {
				for _, ref := range r.doc.References {
					if frontier.Push(ref, r.item.Depth+1) {
						total++
					}
				}
			}

			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: completed,
					Total:     total,
					ID:        r.item.ID,
					Depth:     r.item.Depth,
				})
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return &result, err
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: completed,
			Total:     total,
		})
	}

	return &result, nil
}

// resolveLevel resolves items concurrently and returns their results in
// input order.
func (c *Crawler) resolveLevel(ctx context.Context, items []Item, concurrency int) []crawlResult {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	resolveFn := func(ctx context.Context, id prettyrfc.DocumentID) (*prettyrfc.Document, error) {
		return c.Resolver.Resolve(ctx, string(id))
	}

	results := make([]crawlResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, item := range items {
		g.Go(func() error {
			doc, err := ResolveWithRetryDelays(gctx, item.ID, resolveFn, c.Logger, delays)
			results[i] = crawlResult{item: item, doc: doc, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
