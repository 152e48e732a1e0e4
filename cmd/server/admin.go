package main

import (
	"fmt"

	"counsel_hub/internal/app/service"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"

	"github.com/spf13/cobra"
)

var (
	accountName     string
	accountEmail    string
	accountPassword string
	accountRole     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an account (admin by default)",
	Example: `  counsel-hub create-admin --email admin@example.com --password secret1 --name "Site Admin"
  counsel-hub create-admin --email client@example.com --password secret1 --role user`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, pool, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		defer log.Sync()

		auth := service.NewAuthService(repository.NewPgAdminRepository(pool), security.NewTokenManager(cfg.JWTKey, cfg.JWTExp))
		account, err := auth.CreateAccount(cmd.Context(), service.CreateAccountRequest{
			Name:     accountName,
			Email:    accountEmail,
			Password: accountPassword,
			Role:     accountRole,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", account.Role, account.Email, account.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&accountName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&accountEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&accountPassword, "password", "", "Password (at least 6 characters)")
	createAdminCmd.Flags().StringVar(&accountRole, "role", model.RoleAdmin, "Role: admin or user")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
