// Package resolver is the single entry point for endpoint calls. Reads that
// cannot reach the endpoint are answered from the store; writes that cannot
// reach it are handed to the offline queue.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/client"
	handlers "github.com/talentflow/talentflow/internal/handlers/v1alpha1"
	"github.com/talentflow/talentflow/internal/queue"
	"github.com/talentflow/talentflow/internal/simulator"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/talentflow/talentflow/pkg/metrics"
	"github.com/talentflow/talentflow/pkg/middleware"
	"github.com/talentflow/talentflow/pkg/requestid"
)

var (
	// ErrOffline is the cause recorded for calls issued while offline.
	ErrOffline = errors.New("offline")
	// ErrNoFallback is returned for a read the store cannot answer directly.
	ErrNoFallback = errors.New("no fallback for endpoint")
)

// Enqueuer is the part of the offline queue the resolver needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, e queue.Entry) (uuid.UUID, error)
	Online() bool
}

type Resolver struct {
	client   *client.Client
	fallback *chi.Mux
	queue    Enqueuer
	logger   *log.StructuredLogger
}

// New builds a resolver. q may be nil, in which case failed writes are
// returned to the caller.
func New(c *client.Client, s store.Store, q Enqueuer) *Resolver {
	fallback := chi.NewRouter()
	fallback.Use(middleware.RequestID)
	handlers.NewServiceHandlerFromStore(s).RegisterReads(fallback)

	return &Resolver{
		client:   c,
		fallback: fallback,
		queue:    q,
		logger:   log.NewDebugLogger("resolver"),
	}
}

// Call resolves req. A read returns an error only when the endpoint answered
// with a client error, when no fallback exists, or when ctx is done. A write
// that fails at transport level, or is issued offline, is queued and answered
// with 202.
func (r *Resolver) Call(ctx context.Context, req client.Request) (*client.Response, error) {
	ctx, reqID := requestid.Ensure(ctx)
	write := simulator.IsWrite(req.Method)

	tracer := r.logger.WithContext(ctx).
		Operation("call").
		WithString("method", req.Method).
		WithString("path", req.Path).
		WithString("request_id", reqID).
		Build()

	if r.queue != nil && !r.queue.Online() {
		if write {
			return r.enqueue(ctx, tracer, req, ErrOffline)
		}
		return r.resolveRead(ctx, tracer, req, ErrOffline)
	}

	resp, err := r.client.Do(ctx, req)
	if err == nil {
		tracer.Success().WithInt("status", resp.StatusCode).Log()
		return resp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		tracer.Error(ctxErr).Log()
		return nil, ctxErr
	}

	switch {
	case write && client.IsTransport(err):
		return r.enqueue(ctx, tracer, req, err)
	case !write && (client.IsTransport(err) || client.IsServerError(err)):
		return r.resolveRead(ctx, tracer, req, err)
	}

	tracer.Error(err).Log()
	return nil, err
}

func (r *Resolver) enqueue(ctx context.Context, tracer *log.OperationTracer, req client.Request, cause error) (*client.Response, error) {
	if r.queue == nil {
		tracer.Error(cause).WithString("step", "no_queue").Log()
		return nil, cause
	}

	payload, err := client.EncodeBody(req.Body)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	id, err := r.queue.Enqueue(ctx, queue.Entry{
		Method:    req.Method,
		Path:      req.Path,
		Payload:   payload,
		Actor:     req.Actor,
		RequestID: requestid.FromContext(ctx),
	})
	if err != nil {
		tracer.Error(err).WithString("step", "enqueue").WithString("cause", cause.Error()).Log()
		return nil, fmt.Errorf("failed to queue %s %s: %w", req.Method, req.Path, err)
	}

	metrics.IncreaseResolverDegradedMetric(metrics.DegradedQueued)
	tracer.Warn(cause).WithString("step", "queued").WithUUID("queue_id", id).Log()

	return &client.Response{
		StatusCode: http.StatusAccepted,
		Queued:     true,
		QueueID:    &id,
		RequestID:  requestid.FromContext(ctx),
		Source:     client.SourceQueue,
	}, nil
}

// resolveRead answers a read by routing it to the store backed handlers. The
// route table is the read half of the endpoint surface.
func (r *Resolver) resolveRead(ctx context.Context, tracer *log.OperationTracer, req client.Request, cause error) (*client.Response, error) {
	target, err := url.Parse(req.Path)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("invalid path %q: %w", req.Path, err)
	}

	if !r.fallback.Match(chi.NewRouteContext(), req.Method, target.Path) {
		tracer.Error(cause).WithString("step", "no_fallback").Log()
		return nil, fmt.Errorf("%w %s %s: %w", ErrNoFallback, req.Method, target.Path, cause)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.RequestURI(), nil)
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create fallback request: %w", err)
	}
	httpReq.Header.Set(requestid.Header, requestid.FromContext(ctx))

	rec := httptest.NewRecorder()
	r.fallback.ServeHTTP(rec, httpReq)

	resp, err := client.ParseResponse(rec.Result())
	if err != nil {
		tracer.Error(err).WithString("step", "fallback").Log()
		return nil, err
	}
	resp.Source = client.SourceFallback

	metrics.IncreaseResolverDegradedMetric(metrics.DegradedFallback)
	tracer.Warn(cause).WithString("step", "fallback").WithInt("status", resp.StatusCode).Log()
	return resp, nil
}
