// Package queue persists writes that could not reach their endpoint and
// replays them, one at a time and in order, while the emulator is online.
package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/talentflow/talentflow/pkg/metrics"
	"github.com/talentflow/talentflow/pkg/requestid"
)

const (
	DefaultStorageKey = "offline-queue"
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

var ErrOffline = errors.New("offline queue is offline")

// Queue is a persisted FIFO of writes. Every mutation is written to the
// key value store before it becomes visible. A single goroutine drains the
// queue so exactly one entry is in flight at any time.
type Queue struct {
	mu         sync.Mutex
	buffer     *buffer
	kv         store.KeyValue
	sender     Sender
	key        string
	baseDelay  time.Duration
	maxRetries int
	retryable  func(error) bool
	onDrop     func(Entry, error)
	online     bool
	// changed is closed and replaced on every mutation.
	changed chan struct{}

	wakeCh  chan struct{}
	doneCh  chan struct{}
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once

	logger *log.StructuredLogger
	now    func() time.Time
}

// New loads the persisted entries and starts draining them.
func New(ctx context.Context, kv store.KeyValue, sender Sender, opts ...Option) (*Queue, error) {
	q := &Queue{
		kv:         kv,
		sender:     sender,
		key:        DefaultStorageKey,
		baseDelay:  DefaultBaseDelay,
		maxRetries: DefaultMaxRetries,
		retryable:  func(error) bool { return true },
		online:     true,
		changed:    make(chan struct{}),
		wakeCh:     make(chan struct{}, 1),
		doneCh:     make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     log.NewDebugLogger("offline_queue"),
		now:        time.Now,
	}

	for _, o := range opts {
		o(q)
	}

	entries, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	q.buffer = newBuffer(entries...)
	metrics.UpdateQueueDepthMetric(q.buffer.Size())

	q.ctx, q.cancel = context.WithCancel(context.Background())
	go q.run()

	if len(entries) > 0 {
		q.logger.WithContext(ctx).Operation("load_queue").
			WithInt("entries", len(entries)).
			WithString("key", q.key).
			Build().Success().Log()
		q.wake()
	}

	return q, nil
}

// Enqueue persists the entry and schedules a drain if online. ID, EnqueuedAt
// and RequestID are filled in when empty.
func (q *Queue) Enqueue(ctx context.Context, e Entry) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnqueuedAt.IsZero() {
		e.EnqueuedAt = q.now().UTC()
	}
	if e.RequestID == "" {
		e.RequestID = requestid.FromContext(ctx)
	}
	e.RetryCount = 0

	tracer := q.logger.WithContext(ctx).Operation("enqueue").
		WithUUID("entry_id", e.ID).
		WithString("method", e.Method).
		WithString("path", e.Path).
		Build()

	q.mu.Lock()
	q.buffer.PushBack(e)
	if err := q.persist(ctx); err != nil {
		q.buffer.RemoveTail()
		q.mu.Unlock()
		tracer.Error(err).Log()
		return uuid.Nil, err
	}
	q.notify()
	size, online := q.buffer.Size(), q.online
	q.mu.Unlock()

	if online {
		q.wake()
	}

	tracer.Success().WithInt("depth", size).WithBool("online", online).Log()
	return e.ID, nil
}

// SetOnline switches connectivity. Going online triggers a drain.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	changed := q.online != online
	q.online = online
	q.notify()
	q.mu.Unlock()

	if changed {
		q.logger.WithContext(context.Background()).Operation("set_online").
			Build().Step("connectivity").WithBool("online", online).Log()
	}
	if online {
		q.wake()
	}
}

func (q *Queue) Online() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// Entries returns a copy of the pending entries, oldest first.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buffer.Entries()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buffer.Size()
}

// Drain blocks until the queue is empty. It returns ErrOffline if the queue is
// or goes offline first.
func (q *Queue) Drain(ctx context.Context) error {
	for {
		q.mu.Lock()
		if q.buffer.Size() == 0 {
			q.mu.Unlock()
			return nil
		}
		if !q.online {
			q.mu.Unlock()
			return ErrOffline
		}
		changed := q.changed
		q.mu.Unlock()

		q.wake()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.doneCh:
			return errors.New("offline queue closed")
		case <-changed:
		}
	}
}

// Close stops the drain goroutine. An entry in flight is abandoned without
// counting the attempt; it stays persisted.
func (q *Queue) Close() error {
	q.once.Do(func() {
		close(q.doneCh)
		q.cancel()
		<-q.stopped
	})
	return nil
}

func (q *Queue) wake() {
	select {
	case q.wakeCh <- struct{}{}:
	default:
	}
}

// notify must be called with mu held.
func (q *Queue) notify() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func (q *Queue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.doneCh:
			return
		case <-q.wakeCh:
		}
		q.drain()
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if !q.online || q.buffer.Size() == 0 {
			q.mu.Unlock()
			return
		}
		entry := *q.buffer.Peek()
		q.mu.Unlock()

		err := q.sender.Send(q.ctx, entry)
		if q.ctx.Err() != nil {
			return
		}

		delay := q.settle(entry, err)
		if delay <= 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-q.doneCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// settle records the outcome of one attempt on the head entry and returns how
// long to wait before the next attempt.
func (q *Queue) settle(entry Entry, sendErr error) time.Duration {
	tracer := q.logger.WithContext(requestid.ToContext(context.Background(), entry.RequestID)).
		Operation("replay").
		WithUUID("entry_id", entry.ID).
		WithString("method", entry.Method).
		WithString("path", entry.Path).
		Build()

	q.mu.Lock()

	head := q.buffer.Peek()
	if head == nil || head.ID != entry.ID {
		q.mu.Unlock()
		return 0
	}

	if sendErr == nil {
		metrics.IncreaseQueueAttemptsMetric(metrics.ResultSuccess)
		q.buffer.Pop()
		q.persistOrLog(tracer)
		q.mu.Unlock()
		tracer.Success().WithInt("retry_count", entry.RetryCount).Log()
		return 0
	}

	metrics.IncreaseQueueAttemptsMetric(metrics.ResultFailure)
	head.RetryCount++
	head.LastError = sendErr.Error()
	dropped := *head

	if !q.retryable(sendErr) || head.RetryCount >= q.maxRetries {
		q.buffer.Pop()
		q.persistOrLog(tracer)
		onDrop := q.onDrop
		q.mu.Unlock()

		metrics.IncreaseQueueDropsMetric(entry.Path)
		tracer.Error(sendErr).
			WithString("step", "drop").
			WithInt("retry_count", dropped.RetryCount).
			WithBool("retryable", q.retryable(sendErr)).
			Log()
		if onDrop != nil {
			onDrop(dropped, sendErr)
		}
		return 0
	}

	q.persistOrLog(tracer)
	delay := q.baseDelay * time.Duration(head.RetryCount)
	q.mu.Unlock()

	tracer.Warn(sendErr).WithInt("retry_count", dropped.RetryCount).WithParam("backoff", delay).Log()
	return delay
}

// persistOrLog must be called with mu held. The drain goroutine has no caller
// to return the error to, so it is logged and the in-memory queue stays authoritative.
func (q *Queue) persistOrLog(tracer *log.OperationTracer) {
	if err := q.persist(context.Background()); err != nil {
		tracer.Error(err).WithString("step", "persist").Log()
	}
	q.notify()
}

// persist must be called with mu held.
func (q *Queue) persist(ctx context.Context) error {
	data, err := json.Marshal(q.buffer.Entries())
	if err != nil {
		return errors.Wrap(err, "failed to encode offline queue")
	}
	if err := q.kv.Put(ctx, q.key, string(data)); err != nil {
		return errors.Wrapf(err, "failed to persist offline queue under %q", q.key)
	}
	metrics.UpdateQueueDepthMetric(q.buffer.Size())
	return nil
}

func (q *Queue) load(ctx context.Context) ([]Entry, error) {
	raw, err := q.kv.Get(ctx, q.key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read offline queue under %q", q.key)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.Wrapf(err, "failed to decode offline queue under %q", q.key)
	}
	return entries, nil
}
