package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, seed supermarkets and purge expired idempotency keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lg, err := bootstrap(opts)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			purged, err := repo.PurgeExpiredIdempotency(cmd.Context(), db, time.Now().UTC())
			if err != nil {
				return err
			}
			lg.Info().
				Str("driver", cfg.Database.Driver).
				Int64("purged_idempotency_keys", purged).
				Msg("migration complete")
			return nil
		},
	}
}
