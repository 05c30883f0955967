package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dinehub/internal/kernel"
)

// dinehub token:issue <email>
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue <email>",
	Short: "Print a bearer token for an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		k, err := kernel.Boot(ctx, kernel.Options{Offline: true})
		if err != nil {
			return err
		}
		defer k.Close(ctx)

		token, err := k.Auth.IssueToken(ctx, args[0])
		if err != nil {
			return fmt.Errorf("issue token for %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
