package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/internal/kernel"
	"github.com/shashiranjanraj/dinehub/internal/server"
)

// dinehub serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP API and the gRPC health service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if p, _ := cmd.Flags().GetString("port"); p != "" {
			config.Set("APP_PORT", p)
		}
		if p, _ := cmd.Flags().GetString("grpc-port"); p != "" {
			config.Set("GRPC_PORT", p)
		}
		return server.Start()
	},
}

// dinehub route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.Boot(context.Background(), kernel.Options{Driver: "memory", Offline: true})
		if err != nil {
			return err
		}
		defer k.Close(context.Background())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Router.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP port (overrides APP_PORT)")
	serveCmd.Flags().String("grpc-port", "", "gRPC port (overrides GRPC_PORT)")
}
