package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalcliente/portal-api/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations (postgres) or create indexes (mongo)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := logger.Component("migrate")

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			if err := st.prepare(ctx); err != nil {
				return err
			}
			log.Info().Str("store", st.name).Msg("schema up to date")
			return nil
		},
	}
}
