package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ontoserver/internal/codec"
	"ontoserver/internal/domain"
	"ontoserver/internal/loader"
	"ontoserver/internal/store"
	"ontoserver/internal/translate"
)

func convertCmd() *cobra.Command {
	var (
		in, out  string
		from, to string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert an ontology document between formats",
		Long: `Convert reads an ontology document into the flat model and writes a new
document built from it. Axioms the flat model cannot represent are dropped,
so the output shows exactly what the server would save.

Formats default to the file extensions. An output of "-" writes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger(cmd, verbose)
			registry := codec.DefaultRegistry()

			desc, st, err := importFile(in, from, registry, logger)
			if err != nil {
				return err
			}

			model, err := translate.NewExporter(st, logger).BuildNew(desc)
			if err != nil {
				return err
			}

			var c codec.Codec
			switch {
			case to != "":
				c, err = registry.Lookup(to)
			case out == "-":
				c, err = registry.Lookup("turtle")
			default:
				c, err = registry.ForPath(out)
			}
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := c.Export(model, w); err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"action": "convert",
				"in":     in,
				"out":    out,
				"format": c.Format(),
				"axioms": model.AxiomCount(),
			}).Info("ontology converted")
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Input document")
	cmd.Flags().StringVar(&out, "out", "-", "Output document")
	cmd.Flags().StringVar(&from, "from", "", "Input format (default from extension)")
	cmd.Flags().StringVar(&to, "to", "", "Output format (default from extension)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func inspectCmd() *cobra.Command {
	var (
		format  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the descriptor and entity counts of an ontology document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cliLogger(cmd, verbose)

			desc, st, err := importFile(args[0], format, codec.DefaultRegistry(), logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Ontology:  %s\n", desc.UniqueName)
			fmt.Fprintf(w, "Namespace: %s\n", desc.BaseIRI)

			counts, err := st.Counts()
			if err != nil {
				return err
			}
			for _, kind := range domain.Kinds {
				fmt.Fprintf(w, "  %-16s %d\n", kind, counts[kind])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Document format (default from extension)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")

	return cmd
}

// importFile loads a document into a new flat model store
func importFile(path, format string, registry *codec.Registry, logger logrus.FieldLogger) (domain.OntologyDescriptor, *store.Store, error) {
	model, _, err := loader.LoadFile(path, format, registry)
	if err != nil {
		return domain.OntologyDescriptor{}, nil, err
	}

	st, err := store.New()
	if err != nil {
		return domain.OntologyDescriptor{}, nil, err
	}
	desc, err := translate.NewImporter(st, logger).Import(model)
	if err != nil {
		return domain.OntologyDescriptor{}, nil, err
	}
	return desc, st, nil
}

func cliLogger(cmd *cobra.Command, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
