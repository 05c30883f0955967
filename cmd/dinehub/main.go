// Command dinehub runs the restaurant API and its maintenance tasks.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dinehub/config"
	_ "github.com/shashiranjanraj/dinehub/database/migrations"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dinehub",
		Short:        "Restaurant menu, user and order API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return err
			}
			if store, _ := cmd.Flags().GetString("store"); store != "" {
				config.Set("STORE_DRIVER", store)
			}
			return nil
		},
	}
	root.PersistentFlags().String("store", "", "store driver: mongo, memory, sqlite, postgres, mysql or sqlserver")

	root.AddGroup(
		&cobra.Group{ID: "server", Title: "Server:"},
		&cobra.Group{ID: "db", Title: "Database:"},
		&cobra.Group{ID: "auth", Title: "Auth:"},
	)
	add := func(group string, cmds ...*cobra.Command) {
		for _, c := range cmds {
			c.GroupID = group
			root.AddCommand(c)
		}
	}
	add("server", serveCmd, routeListCmd)
	add("db", migrateCmd, migrateRollbackCmd, migrateStatusCmd, seedCmd)
	add("auth", tokenIssueCmd)
	return root
}
