package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <class> [input.json]",
		Short: "Validate JSON input against a class schema",
		Long: `Validate checks the JSON input against the class's generated schema and
reports the validator's errors without instantiating anything. Input is read
from the given file, or from standard input when no file is named.`,
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
			if _, err := compiled.Validate(input); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "input is valid")
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	return cmd
}
