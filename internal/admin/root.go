// Package admin implements the bizdir-admin command: database migrations
// and operator tasks that must not be reachable over the network, such as
// creating the first administrator account.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bizdir/internal/server/config"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

// Seams for tests.
var (
	openDB        = repomanager.Open
	runMigrations = func(ctx context.Context, db *sql.DB) error {
		return repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db)
	}
)

type options struct {
	dsn string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	defaults := &config.Config{}
	defaults.LoadDefaults()
	dsn := defaults.DatabaseDSN
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		dsn = v
	}

	cmd := &cobra.Command{
		Use:           "bizdir-admin",
		Short:         "Operator tasks for the bizdir API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", dsn, "PostgreSQL DSN (env DATABASE_DSN)")

	cmd.AddCommand(
		migrateCmd(opts),
		createAdminCmd(opts),
		hashPasswordCmd(),
		uploadPhotoCmd(),
	)
	return cmd
}

func (o *options) open(ctx context.Context) (*sql.DB, error) {
	db, err := openDB(ctx, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return db, nil
}

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := runMigrations(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrations error: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
