// Package batch runs composition and decomposition across large row sets
// with a fixed pool of worker goroutines.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mozillazg/go-unidecode"
	"go.uber.org/zap"

	"github.com/lville-gis/internal/lexicon"
	"github.com/lville-gis/internal/normalize"
)

// Options controls a Processor
type Options struct {
	Workers   int  // <= 0 means runtime.NumCPU()
	CacheSize int  // <= 0 disables the result cache
	ASCIIFold bool // transliterate non-ASCII input before decomposition
	Debug     bool // per-row stage tracing
}

// Stats summarises a run
type Stats struct {
	Total     int
	Processed int
	Skipped   int
	CacheHits int
	Updated   int
	Elapsed   time.Duration
}

// RowsPerSecond returns throughput over the run
func (s Stats) RowsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Processed) / s.Elapsed.Seconds()
}

// Processor applies Compose/Decompose to many rows in parallel. The lexicon
// and cache are the only shared state; both are safe for concurrent use.
type Processor struct {
	lex    *lexicon.Lexicon
	opts   Options
	cache  *lru.Cache[string, normalize.AddressComponents]
	logger *zap.Logger
}

// NewProcessor creates a processor over an already-loaded lexicon
func NewProcessor(lex *lexicon.Lexicon, opts Options, logger *zap.Logger) (*Processor, error) {
	if lex == nil {
		return nil, fmt.Errorf("batch: lexicon is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	p := &Processor{lex: lex, opts: opts, logger: logger}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, normalize.AddressComponents](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

// Decompose parses a single address, consulting the cache when enabled
func (p *Processor) Decompose(raw string) normalize.AddressComponents {
	c, _ := p.decompose(raw)
	return c
}

// decompose also reports whether the result came from the cache
func (p *Processor) decompose(raw string) (normalize.AddressComponents, bool) {
	if p.cache != nil {
		if c, ok := p.cache.Get(raw); ok {
			return c, true
		}
	}

	input := raw
	if p.opts.ASCIIFold {
		input = unidecode.Unidecode(raw)
	}
	c := normalize.DecomposeDebug(p.opts.Debug, input, p.lex)
	c.RawInput = raw

	if p.cache != nil {
		p.cache.Add(raw, c)
	}
	return c, false
}

// DecomposeAll decomposes every input, returning results in input order
func (p *Processor) DecomposeAll(ctx context.Context, inputs []string) ([]normalize.AddressComponents, Stats, error) {
	results := make([]normalize.AddressComponents, len(inputs))
	// hits is local so concurrent runs sharing the cache report only their own
	var hits atomic.Int64
	stats, err := p.run(ctx, len(inputs), func(i int) {
		c, hit := p.decompose(inputs[i])
		if hit {
			hits.Add(1)
		}
		results[i] = c
	})
	stats.CacheHits = int(hits.Load())
	return results, stats, err
}

// ComposeAll composes every input, returning results in input order
func (p *Processor) ComposeAll(ctx context.Context, inputs []normalize.AddressParts) ([]string, Stats, error) {
	results := make([]string, len(inputs))
	stats, err := p.run(ctx, len(inputs), func(i int) {
		results[i] = normalize.Compose(inputs[i])
	})
	return results, stats, err
}

// run feeds indices [0, n) to the worker pool. Each index is handled by
// exactly one worker, so fn may write to its own slot without locking.
func (p *Processor) run(ctx context.Context, n int, fn func(i int)) (Stats, error) {
	start := time.Now()

	indexChan := make(chan int, p.opts.Workers*4)
	var processed atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				fn(i)
				processed.Add(1)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indexChan <- i:
		}
	}
	close(indexChan)
	wg.Wait()

	stats := Stats{
		Total:     n,
		Processed: int(processed.Load()),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return stats, fmt.Errorf("batch cancelled after %d of %d rows: %w", stats.Processed, n, err)
	}
	return stats, nil
}
