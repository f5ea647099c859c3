package cli

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/talentflow/talentflow/internal/cli.gitVersion=..."
var (
	gitVersion = ""
	gitCommit  = ""
)

type VersionOptions struct {
	Output string
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func (v versionInfo) String() string {
	if v.Commit == "" {
		return v.Version
	}
	return fmt.Sprintf("%s (%s)", v.Version, v.Commit)
}

func DefaultVersionOptions() *VersionOptions {
	return &VersionOptions{
		Output: "",
	}
}

func NewCmdVersion() *cobra.Command {
	o := DefaultVersionOptions()
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print talentflow version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(o.Output); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output, "Output format. One of: (json, yaml).")
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	info := getVersion()
	if o.Output != "" {
		return printStructured(cmdOut, info, o.Output)
	}
	fmt.Fprintf(cmdOut, "Talentflow Version: %s\n", info.String())
	return nil
}

func getVersion() versionInfo {
	info := versionInfo{
		Version:   gitVersion,
		Commit:    gitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.Version == "" {
		info.Version = "devel"
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
	}
	return info
}
