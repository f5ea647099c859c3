package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/emulator"
	"github.com/talentflow/talentflow/internal/simulator"
	"github.com/talentflow/talentflow/pkg/log"
	"go.uber.org/zap"
)

type GlobalOptions struct {
	// NoFaults disables simulated latency and failures.
	NoFaults bool
	Offline  bool
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.BoolVar(&o.NoFaults, "no-faults", o.NoFaults, "Serve every call without simulated latency or failures")
	fs.BoolVar(&o.Offline, "offline", o.Offline, "Start offline: writes are queued and reads come from the store")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// Config reads the environment and installs the process logger. Logs go to
// stderr so that command output on stdout stays parseable.
func (o *GlobalOptions) Config() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel), "stderr")
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

func (o *GlobalOptions) Emulator(ctx context.Context, cfg *config.Config) (*emulator.Emulator, error) {
	opts := []emulator.Option{emulator.WithOnline(!o.Offline)}
	if o.NoFaults {
		opts = append(opts, emulator.WithPolicy(simulator.FixedPolicy{}))
	}
	return emulator.New(ctx, cfg, opts...)
}
