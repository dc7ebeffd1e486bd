package main

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/classkit/classkit/library"
	"github.com/classkit/classkit/runtime/inmemory"
	"github.com/classkit/classkit/schema"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classkit [sub-command]",
		Short: "Generate JSON schemas from class catalogs and instantiate objects from JSON",
		Long: `classkit compiles reflective class declarations into closed JSON Schema
documents (draft 2020-12) and rebuilds native objects from JSON validated
against those documents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := baseLogger(cmd)
			if err != nil {
				return err
			}
			cmd.SetContext(slogcontext.NewCtx(cmd.Context(), logger))
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	registerLoggingFlags(cmd)
	cmd.PersistentFlags().String("catalog", "", "path to the YAML class catalog")
	cmd.PersistentFlags().StringSlice("exclude", nil, "glob patterns of property names to exclude from generated schemas")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newInstantiateCmd())
	return cmd
}

// libraryFromFlags loads the catalog named by --catalog and builds a schema
// library over it.
func libraryFromFlags(cmd *cobra.Command) (*library.Library, error) {
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("--catalog is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	host, err := inmemory.Load(data)
	if err != nil {
		return nil, err
	}

	exclude, err := cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}
	var opts []schema.GeneratorOption
	if len(exclude) > 0 {
		for _, pattern := range exclude {
			if _, err := glob.Compile(pattern); err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
		}
		opts = append(opts, schema.WithExcludedProperties(exclude...))
	}
	return library.New(host, opts...), nil
}
