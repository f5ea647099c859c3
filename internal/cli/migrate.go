package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/talentflow/talentflow/internal/store"
	"go.uber.org/zap"
)

type MigrateOptions struct {
	GlobalOptions

	Seed bool
}

func DefaultMigrateOptions() *MigrateOptions {
	return &MigrateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdMigrate() *cobra.Command {
	o := DefaultMigrateOptions()
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	return cmd
}

// NewCmdSeed migrates and loads the sample pipeline into an empty database.
func NewCmdSeed() *cobra.Command {
	o := DefaultMigrateOptions()
	o.Seed = true
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample jobs, candidates and assessments into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	return cmd
}

func (o *MigrateOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	zap.S().Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initializing data store: %w", err)
	}

	s := store.NewStore(db)
	defer s.Close()

	if err := s.InitialMigration(ctx); err != nil {
		return fmt.Errorf("running initial migration: %w", err)
	}
	zap.S().Info("Db migrated")

	if !o.Seed {
		return nil
	}
	if err := s.Seed(ctx); err != nil {
		return fmt.Errorf("seeding data store: %w", err)
	}
	zap.S().Info("Db seeded")
	return nil
}
