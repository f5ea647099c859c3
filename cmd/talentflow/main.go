package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/talentflow/talentflow/internal/cli"
)

func main() {
	command := NewTalentflowCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewTalentflowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "talentflow [flags] [options]",
		Short: "talentflow emulates the recruiting pipeline endpoints with simulated latency, failures and an offline queue.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdMigrate())
	cmd.AddCommand(cli.NewCmdSeed())
	cmd.AddCommand(cli.NewCmdCall())
	cmd.AddCommand(cli.NewCmdQueue())
	cmd.AddCommand(cli.NewCmdServe())
	cmd.AddCommand(cli.NewCmdExport())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
