package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newInstantiateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instantiate <class> [input.json]",
		Short: "Validate JSON input against a class schema and rebuild the object",
		Long: `Instantiate validates the JSON input against the class's generated schema
and, when it validates, rebuilds the object it describes. The object's
property values are printed as JSON. Input is read from the given file, or
from standard input when no file is named.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := libraryFromFlags(cmd)
			if err != nil {
				return err
			}
			compiled, err := lib.ClassSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			instance, err := compiled.Instantiate(input)
			if err != nil {
				return err
			}
			out, err := marshalIndent(instance)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) < 2 || args[1] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func marshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
