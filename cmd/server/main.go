// Package main provides the ontoserver binary entry point.
// ontoserver exposes an OWL ontology as flat classes, properties and
// individuals over HTTP and converts between ontology document formats.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "ontoserver"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Ontology editing server",
		Long: `ontoserver loads an OWL ontology and serves it as flat classes, object
properties, data properties and individuals over a JSON API. Edits are
written back to OWL axioms on download, apply or snapshot.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	opts.bind(cmd)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	opts.bind(serve)

	cmd.AddCommand(serve, convertCmd(), inspectCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
