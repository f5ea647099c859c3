package queue

import "time"

type Option func(q *Queue)

func WithBaseDelay(d time.Duration) Option {
	return func(q *Queue) {
		q.baseDelay = d
	}
}

func WithMaxRetries(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxRetries = n
		}
	}
}

func WithStorageKey(key string) Option {
	return func(q *Queue) {
		q.key = key
	}
}

// WithRetryable sets the predicate deciding whether a send error is worth
// another attempt. Entries failing with other errors are dropped at once.
func WithRetryable(fn func(error) bool) Option {
	return func(q *Queue) {
		q.retryable = fn
	}
}

// WithOnline sets the connectivity the queue starts with.
func WithOnline(online bool) Option {
	return func(q *Queue) {
		q.online = online
	}
}

// WithDropHandler is called, without the queue lock held, for every dropped entry.
func WithDropHandler(fn func(Entry, error)) Option {
	return func(q *Queue) {
		q.onDrop = fn
	}
}
