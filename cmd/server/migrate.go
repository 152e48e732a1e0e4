package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		skipMigrate = false
		_, log, pool, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		defer log.Sync()
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
