// Package scraper collects listings from a remote catalogue: either a JSON
// feed or a rendered catalogue page, following rel="next" pagination.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-fill-catalogue/config"
	"github.com/aluiziolira/go-fill-catalogue/feed"
	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
	"github.com/aluiziolira/go-fill-catalogue/pipeline"
)

// positionStride separates the positions of consecutive pages so listings
// collected concurrently still sort into page order.
const positionStride = 1 << 20

const (
	ctxStart = "start"
	ctxPage  = "page"
)

// NextSelector matches the pagination link on a catalogue page.
const NextSelector = `a[rel="next"], li.next a`

// Scraper wraps the colly collector and retry logic for a remote source.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	retry     *retryManager
	Metrics   *Metrics

	requestCount int64
	pageCount    int64
	errorCount   int64
	itemCount    int64

	mu           sync.Mutex
	failedURLs   []string
	errorsByType map[string]int
	followed     map[int]bool

	handlersOnce sync.Once
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("source url must include a host")
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowedDomains(parsed.Hostname(), parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	s := &Scraper{
		cfg:          cfg,
		collector:    collector,
		errorsByType: make(map[string]int),
		followed:     make(map[int]bool),
		Metrics:      NewMetrics(),
	}
	s.retry = newRetryManager(cfg, s.Metrics)
	return s, nil
}

// Run fetches the source and streams listings through the pipeline.
func (s *Scraper) Run(ctx context.Context, p *pipeline.Pipeline) (*models.ScrapeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.retry.SetContext(ctx)
	s.configureHandlers(ctx, p)

	start := time.Now()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.collector.Wait()
			s.retry.Stop()
		case <-done:
		}
	}()

	if err := s.collector.Request(http.MethodGet, s.cfg.Source, nil, pageContext(0), nil); err != nil {
		return nil, fmt.Errorf("initial visit: %w", err)
	}

	s.waitIdle()
	s.retry.Stop()

	result := &models.ScrapeResult{
		StartTime:    start,
		EndTime:      time.Now(),
		TotalCount:   int(atomic.LoadInt64(&s.itemCount)),
		ErrorCount:   int(atomic.LoadInt64(&s.errorCount)),
		FailedURLs:   s.snapshotFailedURLs(),
		ErrorsByType: s.snapshotErrors(),
		RetryCount:   s.retry.TotalRetries(),
		RequestCount: int(atomic.LoadInt64(&s.requestCount)),
		PageCount:    int(atomic.LoadInt64(&s.pageCount)),
	}

	if result.PageCount == 0 && result.ErrorCount > 0 {
		return result, fmt.Errorf("no page of %s could be fetched", s.cfg.Source)
	}
	return result, nil
}

// waitIdle waits for in-flight requests and for retries scheduled by them.
func (s *Scraper) waitIdle() {
	for {
		s.collector.Wait()
		if !s.retry.Wait() {
			return
		}
	}
}

func (s *Scraper) configureHandlers(ctx context.Context, p *pipeline.Pipeline) {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			if ctx.Err() != nil {
				r.Abort()
				return
			}
			r.Ctx.Put(ctxStart, time.Now())
			current := atomic.AddInt64(&s.requestCount, 1)
			s.Metrics.IncRequest("started")
			slog.Debug("fetching catalogue page",
				slog.Int64("requests", current),
				slog.String("url", r.URL.String()),
			)
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if start, ok := r.Ctx.GetAny(ctxStart).(time.Time); ok {
				s.Metrics.ObserveDuration(time.Since(start))
			}
			s.Metrics.IncRequest("completed")
			if !isJSON(r) {
				return
			}

			f, err := feed.Decode(bytes.NewReader(r.Body))
			if err != nil {
				s.recordFailure(r.Request.URL.String(), "decode", err)
				return
			}
			offset := pageOf(r.Ctx) * positionStride
			for _, l := range parser.FromScripts(f.Scripts) {
				l.Position += offset
				s.process(p, l)
			}
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			atomic.AddInt64(&s.errorCount, 1)
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			classified := classifyError(err, statusCode)
			category := errorTypeLabel(classified)

			s.mu.Lock()
			s.errorsByType[category]++
			s.mu.Unlock()

			var req *colly.Request
			target := ""
			if r != nil && r.Request != nil && r.Request.URL != nil {
				req = r.Request
				target = req.URL.String()
			}
			slog.Error("request error",
				slog.String("url", target),
				slog.String("category", category),
				slog.Any("error", err),
			)
			s.Metrics.IncError(category)

			if !retryable(classified) || !s.retry.Schedule(req) {
				s.mu.Lock()
				s.failedURLs = append(s.failedURLs, target)
				s.mu.Unlock()
			}
		})

		s.collector.OnHTML(parser.ListingSelector, func(e *colly.HTMLElement) {
			position := pageOf(e.Request.Ctx)*positionStride + e.Index
			l := parser.FromSelection(e.DOM, position)
			if l == nil {
				return
			}
			s.process(p, l)
		})

		s.collector.OnHTML(NextSelector, func(e *colly.HTMLElement) {
			page := pageOf(e.Request.Ctx)
			next := page + 1
			if next >= s.cfg.MaxPages || ctx.Err() != nil {
				return
			}
			s.mu.Lock()
			if s.followed[next] {
				s.mu.Unlock()
				return
			}
			s.followed[next] = true
			s.mu.Unlock()

			link := e.Request.AbsoluteURL(e.Attr("href"))
			if link == "" {
				return
			}
			if err := s.collector.Request(http.MethodGet, link, nil, pageContext(next), nil); err != nil {
				slog.Debug("next page not followed", slog.String("url", link), slog.Any("error", err))
			}
		})

		s.collector.OnScraped(func(r *colly.Response) {
			atomic.AddInt64(&s.pageCount, 1)
		})
	})
}

func (s *Scraper) process(p *pipeline.Pipeline, l *models.Listing) {
	atomic.AddInt64(&s.itemCount, 1)
	s.Metrics.IncItems()
	if err := p.Process(l); err != nil && !errors.Is(err, pipeline.ErrPipelineClosed) {
		slog.Error("pipeline process error", slog.Any("error", err))
	}
}

func (s *Scraper) recordFailure(target, category string, err error) {
	atomic.AddInt64(&s.errorCount, 1)
	s.mu.Lock()
	s.errorsByType[category]++
	s.failedURLs = append(s.failedURLs, target)
	s.mu.Unlock()
	s.Metrics.IncError(category)
	slog.Error("page rejected", slog.String("url", target), slog.Any("error", err))
}

func pageContext(page int) *colly.Context {
	c := colly.NewContext()
	c.Put(ctxPage, page)
	return c
}

func pageOf(c *colly.Context) int {
	if c == nil {
		return 0
	}
	if page, ok := c.GetAny(ctxPage).(int); ok {
		return page
	}
	return 0
}

func isJSON(r *colly.Response) bool {
	if r.Headers != nil && strings.Contains(r.Headers.Get("Content-Type"), "json") {
		return true
	}
	return strings.HasSuffix(r.Request.URL.Path, ".json")
}

func (s *Scraper) snapshotFailedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}

func (s *Scraper) snapshotErrors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		}
		if statusCode >= http.StatusInternalServerError {
			return ErrServer{Err: wrapped, Status: statusCode}
		}
	}

	return err
}

// retryable reports whether a failed request may succeed on a later attempt.
func retryable(err error) bool {
	var forbidden ErrForbidden
	var notFound ErrNotFound
	return !errors.As(err, &forbidden) && !errors.As(err, &notFound)
}

type retryManager struct {
	cfg     *config.Config
	metrics *Metrics
	ctx     context.Context

	mu           sync.Mutex
	attempts     map[string]int
	timers       map[string]*time.Timer
	pending      sync.WaitGroup
	totalRetries int
	stopped      bool
}

func newRetryManager(cfg *config.Config, metrics *Metrics) *retryManager {
	return &retryManager{
		cfg:      cfg,
		attempts: make(map[string]int),
		timers:   make(map[string]*time.Timer),
		metrics:  metrics,
		ctx:      context.Background(),
	}
}

// Schedule re-issues req after a backoff. It returns false once the request
// has used up its attempts.
func (rm *retryManager) Schedule(req *colly.Request) bool {
	if req == nil || rm.cfg.MaxRetries == 0 {
		return false
	}
	key := req.URL.String()

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped || rm.ctx.Err() != nil {
		return false
	}

	attempt := rm.attempts[key]
	if attempt >= rm.cfg.MaxRetries {
		return false
	}

	attempt++
	rm.attempts[key] = attempt
	rm.totalRetries++
	rm.metrics.IncRetries()

	delay := rm.backoff(attempt)
	rm.resetTimerLocked(key)
	rm.pending.Add(1)
	rm.timers[key] = time.AfterFunc(delay, func() {
		defer rm.pending.Done()
		rm.fireRetry(key, req)
	})
	return true
}

func (rm *retryManager) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := rm.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if limit := rm.cfg.RetryBackoffMax; limit > 0 && delay > limit {
		delay = limit
	}
	return delay
}

func (rm *retryManager) resetTimerLocked(key string) {
	if timer, ok := rm.timers[key]; ok {
		if timer.Stop() {
			rm.pending.Done()
		}
		delete(rm.timers, key)
	}
}

func (rm *retryManager) fireRetry(key string, req *colly.Request) {
	rm.mu.Lock()
	delete(rm.timers, key)
	if rm.stopped || rm.ctx.Err() != nil {
		rm.mu.Unlock()
		return
	}
	rm.mu.Unlock()

	// Retry bypasses the collector's visited check.
	if err := req.Retry(); err != nil {
		slog.Debug("retry visit failed", slog.String("url", key), slog.Any("error", err))
	}
}

// Wait blocks until every scheduled retry has fired. It reports whether any
// retry was outstanding.
func (rm *retryManager) Wait() bool {
	rm.mu.Lock()
	outstanding := len(rm.timers) > 0
	rm.mu.Unlock()
	rm.pending.Wait()
	return outstanding
}

func (rm *retryManager) Stop() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped {
		return
	}

	rm.stopped = true
	for key, timer := range rm.timers {
		if timer.Stop() {
			rm.pending.Done()
		}
		delete(rm.timers, key)
	}
}

func (rm *retryManager) TotalRetries() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.totalRetries
}

func (rm *retryManager) SetContext(ctx context.Context) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if ctx == nil {
		rm.ctx = context.Background()
		return
	}
	rm.ctx = ctx
}
