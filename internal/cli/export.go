package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/talentflow/talentflow/internal/report"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
)

const (
	xlsxFormat = "xlsx"
	csvFormat  = "csv"
)

var legalExportFormats = []string{xlsxFormat, csvFormat}

type ExportOptions struct {
	GlobalOptions

	Format string
	File   string
}

func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Format:        xlsxFormat,
	}
}

func NewCmdExport() *cobra.Command {
	o := DefaultExportOptions()
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the candidate pipeline as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ExportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Format, "format", "f", o.Format, fmt.Sprintf("Export format. One of: (%s).", strings.Join(legalExportFormats, ", ")))
	fs.StringVar(&o.File, "file", o.File, "Destination file, - for stdout. Defaults to pipeline.<format>")
}

func (o *ExportOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.File == "" {
		o.File = "pipeline." + o.Format
	}
	return nil
}

func (o *ExportOptions) Validate(args []string) error {
	if !funk.ContainsString(legalExportFormats, o.Format) {
		return fmt.Errorf("format must be one of %s", strings.Join(legalExportFormats, ", "))
	}
	return nil
}

func (o *ExportOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	db, err := store.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initializing data store: %w", err)
	}
	s := store.NewStore(db)
	defer s.Close()

	rows, err := report.Pipeline(ctx, s)
	if err != nil {
		return err
	}

	var w io.Writer = cmdOut
	if o.File != "-" {
		f, err := os.Create(o.File)
		if err != nil {
			return fmt.Errorf("creating %s: %w", o.File, err)
		}
		defer f.Close()
		w = f
	}

	if err := o.write(w, rows); err != nil {
		return fmt.Errorf("exporting pipeline: %w", err)
	}
	zap.S().Named("cli").Infof("exported %d candidates to %s", len(rows), o.File)
	return nil
}

func (o *ExportOptions) write(w io.Writer, rows []report.Row) error {
	if o.Format == csvFormat {
		return report.WriteCSV(w, rows)
	}
	return report.WriteXLSX(w, rows)
}
