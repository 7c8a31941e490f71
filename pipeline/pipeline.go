// Package pipeline validates, de-duplicates and batches listings on their way
// from a source into an output writer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-fill-catalogue/config"
	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

var (
	// ErrPipelineClosed is returned when Process is called after shutdown.
	ErrPipelineClosed = errors.New("pipeline: closed")
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(listings []*models.Listing) error
	Close() error
	Validate() error
}

// Pipeline coordinates validation, de-duplication, and output writing.
type Pipeline struct {
	ctx       context.Context
	writer    OutputWriter
	listingCh chan *models.Listing
	batchSize int

	wg sync.WaitGroup

	// seen is a bounded window of listing IDs; a paginated source that
	// repeats a listing further than DedupeMaxSize back is not caught.
	seen *lru.Cache[string, struct{}]

	metrics metrics

	mu     sync.Mutex // guards closed/err
	closed bool
	err    error

	closeOnce    sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewPipeline builds a pipeline sized from cfg.
func NewPipeline(ctx context.Context, writer OutputWriter, cfg *config.Config) *Pipeline {
	if ctx == nil {
		ctx = context.Background()
	}

	bufferSize := cfg.PipelineBufferSize
	if bufferSize <= 0 {
		bufferSize = 1
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	dedupeSize := cfg.DedupeMaxSize
	if dedupeSize <= 0 {
		dedupeSize = 1
	}

	// lru.New only fails for a non-positive size.
	seen, _ := lru.New[string, struct{}](dedupeSize)

	return &Pipeline{
		ctx:       ctx,
		writer:    writer,
		listingCh: make(chan *models.Listing, bufferSize),
		batchSize: batchSize,
		seen:      seen,
		metrics:   newMetrics(),
		shutdown:  make(chan struct{}),
	}
}

// Start launches worker goroutines.
func (p *Pipeline) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Process enqueues a listing for downstream processing.
func (p *Pipeline) Process(listing *models.Listing) error {
	if listing == nil {
		return nil
	}

	closed, err := p.state()
	if err != nil {
		return err
	}
	if closed {
		return ErrPipelineClosed
	}

	return p.enqueue(listing)
}

// ProcessAll enqueues listings in order, stopping at the first failure.
func (p *Pipeline) ProcessAll(listings []*models.Listing) error {
	for _, l := range listings {
		if err := p.Process(l); err != nil {
			return err
		}
	}
	return nil
}

// Close waits for workers to finish and prevents more submissions.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
	}
	p.mu.Unlock()

	p.closeOnce.Do(func() {
		close(p.listingCh)
	})

	p.wg.Wait()
	p.signalShutdown()
	return p.Err()
}

// Err returns the first error encountered during processing.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

// StartMetricsReporting emits periodic progress logs.
func (p *Pipeline) StartMetricsReporting(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				metrics := p.GetMetrics()
				slog.Info("pipeline progress",
					slog.Int64("processed", metrics["processed_listings"].(int64)),
					slog.Any("validation_errors", metrics["validation_errors"]),
				)
			case <-p.shutdown:
				return
			case <-p.ctx.Done():
				return
			}
		}
	}()
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	batch := make([]*models.Listing, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.writer.Write(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for listing := range p.listingCh {
		prepared := p.prepare(listing)
		if prepared == nil {
			continue
		}
		batch = append(batch, prepared)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				p.setErr(fmt.Errorf("write batch: %w", err))
				return
			}
		}
	}

	if err := flush(); err != nil {
		p.setErr(fmt.Errorf("write batch: %w", err))
	}
}

func (p *Pipeline) prepare(listing *models.Listing) *models.Listing {
	if err := parser.ValidateListing(listing); err != nil {
		slog.Debug("dropping invalid listing", slog.Any("error", err))
		p.metrics.addValidation("invalid_record")
		return nil
	}

	if ok, _ := p.seen.ContainsOrAdd(listing.ID, struct{}{}); ok {
		p.metrics.addValidation("duplicate_id")
		return nil
	}

	listing.Title = parser.NormalizeText(listing.Title)

	p.metrics.incrementProcessed()
	return listing
}

func (p *Pipeline) enqueue(listing *models.Listing) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPipelineClosed
		}
	}()

	select {
	case <-p.shutdown:
		return ErrPipelineClosed
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.listingCh <- listing:
		return nil
	}
}

func (p *Pipeline) setErr(err error) {
	if err == nil {
		return
	}

	p.mu.Lock()
	if p.err != nil {
		p.mu.Unlock()
		return
	}
	p.err = err
	p.closed = true
	p.mu.Unlock()

	p.signalShutdown()
	go p.drain()
}

// drain keeps producers from blocking once a worker has failed.
func (p *Pipeline) drain() {
	defer func() { _ = recover() }()
	for range p.listingCh {
	}
}

func (p *Pipeline) state() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed, p.err
}

func (p *Pipeline) signalShutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdown)
	})
}

type metrics struct {
	mu         sync.Mutex
	processed  int64
	validation map[string]int
}

func newMetrics() metrics {
	return metrics{
		validation: make(map[string]int),
	}
}

func (m *metrics) incrementProcessed() {
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}

	return map[string]interface{}{
		"processed_listings": m.processed,
		"validation_errors":  copyValidation,
	}
}
