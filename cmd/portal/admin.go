package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalcliente/portal-api/internal/core/domain"
	"github.com/portalcliente/portal-api/internal/core/service"
	"github.com/portalcliente/portal-api/pkg/logger"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(newRoleCmd("promote <email>", "Grant the admin role to a user", domain.RoleAdmin))
	cmd.AddCommand(newRoleCmd("demote <email>", "Revoke the admin role from a user", domain.RoleUser))
	return cmd
}

func newRoleCmd(use, short, role string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := logger.Component("admin")

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			// Role changes touch neither sessions nor notifications.
			auth := service.NewAuthService(st.users, nil, nil, service.AuthConfig{
				JWTSecret: cfg.Auth.JWTSecret,
			}, log)

			user, err := auth.AssignRole(ctx, args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}
