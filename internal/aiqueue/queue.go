// Package aiqueue serializes calls to a rate-limited text completion API.
//
// A single worker dispatches one prompt at a time, spacing dispatches by a
// fixed interval. Responses are cached by prompt hash, identical prompts that
// are already waiting share one queue item, and transient upstream failures
// are retried with exponential backoff ahead of everything else in the queue.
package aiqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type Upstream interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	RequestInterval time.Duration
	BaseRetryDelay  time.Duration
	MaxRetries      int
	CacheTTL        time.Duration
	CacheCapacity   int
	RequestTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestInterval: time.Second,
		BaseRetryDelay:  time.Second,
		MaxRetries:      3,
		CacheTTL:        30 * time.Minute,
		CacheCapacity:   100,
		RequestTimeout:  30 * time.Second,
	}
}

type Option func(*Queue)

func WithClock(c Clock) Option {
	return func(q *Queue) {
		if c != nil {
			q.clock = c
		}
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option {
	return func(q *Queue) {
		if c != nil {
			q.cache = c
		}
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(q *Queue) {
		if l != nil {
			q.log = l.WithField("component", "ai_queue")
		}
	}
}

type Stats struct {
	Dispatched int64 `json:"dispatched"`
	CacheHits  int64 `json:"cache_hits"`
	Coalesced  int64 `json:"coalesced"`
	Retries    int64 `json:"retries"`
	Failures   int64 `json:"failures"`
	Pending    int   `json:"pending"`
	CacheSize  int   `json:"cache_size"`
}

type result struct {
	text string
	err  error
}

type item struct {
	prompt   string
	key      string
	retries  int
	attempts int
	done     chan result
}

func (it *item) resolve(text string, err error) {
	select {
	case it.done <- result{text: text, err: err}:
	default:
	}
}

type Queue struct {
	upstream Upstream
	cfg      Config
	cache    Cache
	clock    Clock
	log      *logrus.Entry

	mu      sync.Mutex
	pending []*item
	started bool
	closed  bool
	wake    chan struct{}

	group singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	dispatched atomic.Int64
	cacheHits  atomic.Int64
	joined     atomic.Int64
	leaders    atomic.Int64
	retries    atomic.Int64
	failures   atomic.Int64
}

func New(upstream Upstream, cfg Config, opts ...Option) *Queue {
	def := DefaultConfig()
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = def.CacheCapacity
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		upstream: upstream,
		cfg:      cfg,
		clock:    realClock{},
		log:      logrus.NewEntry(logrus.StandardLogger()).WithField("component", "ai_queue"),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.cache == nil {
		q.cache = NewMemoryCache(cfg.CacheTTL, cfg.CacheCapacity, q.clock.Now)
	}
	return q
}

// Start launches the worker. Calling it more than once is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	if q.started || q.closed {
		q.mu.Unlock()
		return
	}
	q.started = true
	q.mu.Unlock()

	go q.run()
}

// Close stops the worker and fails every item still waiting in the queue.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	pending := q.pending
	q.pending = nil
	started := q.started
	q.mu.Unlock()

	q.cancel()
	for _, it := range pending {
		it.resolve("", &Error{Kind: KindPermanent, Attempts: it.attempts, Err: ErrQueueClosed})
	}
	if started {
		<-q.done
	}
}

// Generate returns the completion for prompt. A cached response returns
// immediately. ctx only bounds how long the caller waits: once queued, the
// request still runs and its response is cached for the next caller.
func (q *Queue) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &Error{Kind: KindPermanent, Err: ErrEmptyPrompt}
	}

	key := CacheKey(prompt)
	if text, ok := q.cache.Get(key); ok {
		q.cacheHits.Add(1)
		return text, nil
	}

	q.joined.Add(1)
	ch := q.group.DoChan(key, func() (interface{}, error) {
		q.leaders.Add(1)
		if text, ok := q.cache.Get(key); ok {
			q.cacheHits.Add(1)
			return text, nil
		}

		it := &item{prompt: prompt, key: key, done: make(chan result, 1)}
		if err := q.push(it); err != nil {
			return "", err
		}
		r := <-it.done
		return r.text, r.err
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		text, _ := r.Val.(string)
		return text, nil
	}
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending := len(q.pending)
	q.mu.Unlock()

	coalesced := q.joined.Load() - q.leaders.Load()
	if coalesced < 0 {
		coalesced = 0
	}
	return Stats{
		Dispatched: q.dispatched.Load(),
		CacheHits:  q.cacheHits.Load(),
		Coalesced:  coalesced,
		Retries:    q.retries.Load(),
		Failures:   q.failures.Load(),
		Pending:    pending,
		CacheSize:  q.cache.Len(),
	}
}

func (q *Queue) push(it *item) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return &Error{Kind: KindPermanent, Err: ErrQueueClosed}
	}
	q.pending = append(q.pending, it)
	q.mu.Unlock()

	q.signal()
	return nil
}

// pushFront requeues a retried item ahead of fresh work. Under a sustained
// upstream outage this starves later arrivals until the item exhausts its
// retries.
func (q *Queue) pushFront(it *item) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		it.resolve("", &Error{Kind: KindPermanent, Attempts: it.attempts, Err: ErrQueueClosed})
		return
	}
	q.pending = append([]*item{it}, q.pending...)
	q.mu.Unlock()

	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) next() (*item, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		if len(q.pending) > 0 {
			it := q.pending[0]
			q.pending[0] = nil
			q.pending = q.pending[1:]
			q.mu.Unlock()
			return it, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-q.ctx.Done():
			return nil, false
		}
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		it, ok := q.next()
		if !ok {
			return
		}
		if q.process(it) {
			q.clock.Sleep(q.ctx, q.cfg.RequestInterval)
		}
	}
}

// process handles one item, including any backoff wait before it is
// requeued. It reports whether the upstream was called.
func (q *Queue) process(it *item) bool {
	if text, ok := q.cache.Get(it.key); ok {
		q.cacheHits.Add(1)
		it.resolve(text, nil)
		return false
	}

	it.attempts++
	q.dispatched.Add(1)

	ctx := q.ctx
	var cancel context.CancelFunc = func() {}
	if q.cfg.RequestTimeout > 0 {
		ctx, cancel = context.WithTimeout(q.ctx, q.cfg.RequestTimeout)
	}
	start := q.clock.Now()
	text, err := q.upstream.Generate(ctx, it.prompt)
	cancel()

	if err == nil {
		q.cache.Set(it.key, text)
		q.log.WithFields(logrus.Fields{
			"key":      it.key,
			"attempts": it.attempts,
			"duration": q.clock.Now().Sub(start),
		}).Debug("ai request succeeded")
		it.resolve(text, nil)
		return true
	}

	if q.ctx.Err() != nil {
		it.resolve("", &Error{Kind: KindPermanent, Attempts: it.attempts, Err: ErrQueueClosed})
		return true
	}

	fields := logrus.Fields{"key": it.key, "attempts": it.attempts, "error": err}

	if !IsRetryable(err) {
		q.failures.Add(1)
		q.log.WithFields(fields).Warn("ai request failed permanently")
		it.resolve("", &Error{Kind: KindPermanent, Attempts: it.attempts, Err: err})
		return true
	}

	if it.retries >= q.cfg.MaxRetries {
		q.failures.Add(1)
		q.log.WithFields(fields).Warn("ai request retries exhausted")
		it.resolve("", &Error{
			Kind:     KindRetryable,
			Attempts: it.attempts,
			Err:      fmt.Errorf("%w: %w", ErrRetriesExhausted, err),
		})
		return true
	}

	delay := q.backoff(it.retries)
	it.retries++
	q.retries.Add(1)
	fields["retry"] = it.retries
	fields["delay"] = delay
	q.log.WithFields(fields).Info("ai request rate limited, retrying")

	q.clock.Sleep(q.ctx, delay)
	q.pushFront(it)
	return true
}

func (q *Queue) backoff(retries int) time.Duration {
	if retries > 16 {
		retries = 16
	}
	return q.cfg.BaseRetryDelay * time.Duration(1<<uint(retries))
}

// IsClosed reports whether err came from a queue that was shut down.
func IsClosed(err error) bool {
	return errors.Is(err, ErrQueueClosed)
}
