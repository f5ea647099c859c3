// Package simulator answers the endpoint surface in process, with injected
// latency and transport failures.
package simulator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/talentflow/talentflow/internal/auth"
	handlers "github.com/talentflow/talentflow/internal/handlers/v1alpha1"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/talentflow/talentflow/pkg/metrics"
	"github.com/talentflow/talentflow/pkg/middleware"
	"github.com/talentflow/talentflow/pkg/requestid"
)

type Simulator struct {
	router http.Handler
	policy FaultPolicy
	logger *log.StructuredLogger
}

func New(s store.Store, policy FaultPolicy) *Simulator {
	h := handlers.NewServiceHandlerFromStore(s)

	metricMiddleware := metrics.NewMiddleware("simulator")
	if err := metricMiddleware.Register(prometheus.DefaultRegisterer); err != nil {
		log.NewLogger("simulator").WithContext(context.Background()).
			Operation("register_metrics").Build().
			Warn(err).Log()
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		metricMiddleware.Handler,
		middleware.Logger(),
		chiMiddleware.Recoverer,
		auth.NewHeaderAuthenticator().Authenticator,
	)
	h.Register(router)

	return &Simulator{
		router: router,
		policy: policy,
		logger: log.NewDebugLogger("simulator"),
	}
}

// IsWrite reports whether the method mutates state.
func IsWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// Router serves the endpoints without latency or faults.
func (s *Simulator) Router() http.Handler {
	return s.router
}

// Handler serves the endpoints over a real listener. An injected fault aborts
// the connection so the client sees a transport error.
func (s *Simulator) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.inject(r); err != nil {
			panic(http.ErrAbortHandler)
		}
		s.router.ServeHTTP(w, r)
	})
}

// RoundTrip implements http.RoundTripper. The request is served in process;
// an injected fault returns *ErrNetwork without reaching the endpoint.
func (s *Simulator) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := s.inject(req); err != nil {
		return nil, err
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec.Result(), nil
}

// Client returns an http.Client that talks to the simulator.
func (s *Simulator) Client() *http.Client {
	return &http.Client{Transport: s}
}

func (s *Simulator) inject(req *http.Request) error {
	write := IsWrite(req.Method)
	kind := metrics.KindRead
	if write {
		kind = metrics.KindWrite
	}

	decision := s.policy.Decide(write)

	tracer := s.logger.WithContext(req.Context()).
		Operation("simulate").
		WithString("method", req.Method).
		WithString("path", req.URL.Path).
		WithString("request_id", req.Header.Get(requestid.Header)).
		Build()

	if err := sleep(req.Context(), decision.Latency); err != nil {
		tracer.Error(err).WithString("step", "latency").Log()
		return err
	}

	if decision.Fail {
		metrics.IncreaseSimulatorRequestsMetric(kind, metrics.OutcomeFault)
		err := &ErrNetwork{Method: req.Method, Path: req.URL.Path}
		tracer.Warn(err).WithParam("latency", decision.Latency).Log()
		return err
	}

	metrics.IncreaseSimulatorRequestsMetric(kind, metrics.OutcomeServed)
	tracer.Step("dispatch").WithParam("latency", decision.Latency).Log()
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
