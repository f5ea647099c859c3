// Package emulator wires the store, the request simulator, the offline queue
// and the resolver into one object.
package emulator

import (
	"context"
	"fmt"

	"github.com/talentflow/talentflow/internal/client"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/queue"
	"github.com/talentflow/talentflow/internal/resolver"
	"github.com/talentflow/talentflow/internal/simulator"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/pkg/log"
)

type Emulator struct {
	store     store.Store
	simulator *simulator.Simulator
	client    *client.Client
	queue     *queue.Queue
	resolver  *resolver.Resolver
}

type Option func(*options)

type options struct {
	policy simulator.FaultPolicy
	online bool
}

// WithPolicy replaces the random fault policy built from the configuration.
func WithPolicy(p simulator.FaultPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithOnline sets the initial connectivity. The default is online.
func WithOnline(online bool) Option {
	return func(o *options) {
		o.online = online
	}
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Emulator, error) {
	o := &options{online: true}
	for _, opt := range opts {
		opt(o)
	}

	tracer := log.NewLogger("emulator").WithContext(ctx).
		Operation("start_emulator").
		WithString("db_type", cfg.Database.Type).
		Build()

	db, err := store.InitDB(cfg)
	if err != nil {
		tracer.Error(err).WithString("step", "init_db").Log()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := store.NewStore(db)
	if err := s.InitialMigration(ctx); err != nil {
		_ = s.Close()
		tracer.Error(err).WithString("step", "migrate").Log()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.Service.Seed {
		if err := s.Seed(ctx); err != nil {
			_ = s.Close()
			tracer.Error(err).WithString("step", "seed").Log()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	policy := o.policy
	if policy == nil {
		policy = simulator.NewRandomPolicy(simulator.RandomPolicyConfig{
			LatencyMin:       cfg.Simulator.LatencyMin,
			LatencyMax:       cfg.Simulator.LatencyMax,
			ReadFailureRate:  cfg.Simulator.ReadFailureRate,
			WriteFailureRate: cfg.Simulator.WriteFailureRate,
			Seed:             cfg.Simulator.RandomSeed,
		})
	}

	sim := simulator.New(s, policy)
	c := client.NewClient(client.DefaultBaseURL, sim.Client())

	dropLogger := log.NewLogger("offline_queue")
	q, err := queue.New(ctx, s.KeyValue(), c,
		queue.WithBaseDelay(cfg.Queue.BaseDelay),
		queue.WithMaxRetries(cfg.Queue.MaxRetries),
		queue.WithStorageKey(cfg.Queue.StorageKey),
		queue.WithRetryable(client.IsTransport),
		queue.WithOnline(o.online),
		queue.WithDropHandler(func(e queue.Entry, err error) {
			dropLogger.WithContext(context.Background()).
				Operation("drop_entry").
				WithUUID("entry_id", e.ID).
				WithString("method", e.Method).
				WithString("path", e.Path).
				Build().
				Error(err).WithInt("retry_count", e.RetryCount).Log()
		}),
	)
	if err != nil {
		_ = s.Close()
		tracer.Error(err).WithString("step", "load_queue").Log()
		return nil, err
	}

	tracer.Success().WithInt("queued", q.Len()).WithBool("online", o.online).Log()

	return &Emulator{
		store:     s,
		simulator: sim,
		client:    c,
		queue:     q,
		resolver:  resolver.New(c, s, q),
	}, nil
}

// Call resolves one endpoint call.
func (e *Emulator) Call(ctx context.Context, req client.Request) (*client.Response, error) {
	return e.resolver.Call(ctx, req)
}

// SetOnline switches connectivity. Going online drains the queue.
func (e *Emulator) SetOnline(online bool) {
	e.queue.SetOnline(online)
}

func (e *Emulator) Store() store.Store {
	return e.store
}

func (e *Emulator) Simulator() *simulator.Simulator {
	return e.simulator
}

func (e *Emulator) Queue() *queue.Queue {
	return e.queue
}

// Close stops the queue before closing the store it persists to.
func (e *Emulator) Close() error {
	if err := e.queue.Close(); err != nil {
		return err
	}
	return e.store.Close()
}
