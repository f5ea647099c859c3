package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	apiserver "github.com/talentflow/talentflow/internal/api_server"
	"github.com/talentflow/talentflow/pkg/log"
	"go.uber.org/zap"
)

type ServeOptions struct {
	GlobalOptions
}

func NewCmdServe() *cobra.Command {
	o := &ServeOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the endpoints and /metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ServeOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	// A long running server logs to stdout like any other service.
	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	e, err := o.Emulator(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	listener, err := newListener(cfg.Service.Address)
	if err != nil {
		return fmt.Errorf("creating listener: %w", err)
	}
	metricsListener, err := newListener(cfg.Service.MetricsAddress)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("creating metrics listener: %w", err)
	}

	metricsServer, err := apiserver.NewMetricServer(cfg.Service.MetricsAddress, metricsListener, e.Store())
	if err != nil {
		_ = listener.Close()
		_ = metricsListener.Close()
		return fmt.Errorf("creating metrics server: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		defer cancel()
		errCh <- apiserver.New(cfg, e.Simulator().Handler(), listener).Run(ctx)
	}()
	go func() {
		defer cancel()
		errCh <- metricsServer.Run(ctx)
	}()

	<-ctx.Done()
	for range 2 {
		if err := <-errCh; err != nil {
			return err
		}
	}
	return nil
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
