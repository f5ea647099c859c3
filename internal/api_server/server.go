package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/pkg/requestid"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

// Server exposes the endpoint surface over a real listener.
type Server struct {
	cfg      *config.Config
	handler  http.Handler
	listener net.Listener
}

// New returns a server for handler, usually the simulator's fault injecting handler.
func New(cfg *config.Config, handler http.Handler, listener net.Listener) *Server {
	return &Server{
		cfg:      cfg,
		handler:  handler,
		listener: listener,
	}
}

// Router returns the CORS wrapped handler served by Run.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.AllowedOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", requestid.Header, api.ActorHeader},
			ExposedHeaders:   []string{requestid.Header},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)
	router.Mount("/", s.handler)
	return router
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
