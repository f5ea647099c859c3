package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/talentflow/talentflow/internal/queue"
	"go.uber.org/zap"
)

func NewCmdQueue() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect or replay writes waiting in the offline queue",
	}
	cmd.AddCommand(NewCmdQueueList())
	cmd.AddCommand(NewCmdQueueDrain())
	return cmd
}

type QueueListOptions struct {
	GlobalOptions

	Output string
}

func NewCmdQueueList() *cobra.Command {
	o := &QueueListOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending writes, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(o.Output); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *QueueListOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *QueueListOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	// Offline so listing does not replay anything.
	o.Offline = true
	e, err := o.Emulator(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	entries := e.Queue().Entries()
	if o.Output != "" {
		return printStructured(cmdOut, entries, o.Output)
	}
	return printQueueTable(cmdOut, entries)
}

func printQueueTable(out io.Writer, entries []queue.Entry) error {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "ID\tMETHOD\tPATH\tRETRIES\tENQUEUED\tLAST ERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", e.ID, e.Method, e.Path, e.RetryCount, e.EnqueuedAt.Format(time.RFC3339), e.LastError)
	}
	return w.Flush()
}

type QueueDrainOptions struct {
	GlobalOptions

	Timeout time.Duration
}

func NewCmdQueueDrain() *cobra.Command {
	o := &QueueDrainOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Timeout:       time.Minute,
	}
	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Replay pending writes until the queue is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *QueueDrainOptions) Bind(fs *pflag.FlagSet) {
	fs.BoolVar(&o.NoFaults, "no-faults", o.NoFaults, "Replay without simulated latency or failures")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Give up after this long")
}

func (o *QueueDrainOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	e, err := o.Emulator(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	pending := e.Queue().Len()
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	if err := e.Queue().Drain(ctx); err != nil {
		return fmt.Errorf("draining offline queue: %w", err)
	}
	zap.S().Named("cli").Infof("offline queue drained, %d entries processed", pending)
	return nil
}
