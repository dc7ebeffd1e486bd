package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <class>",
		Short: "Generate the JSON schema document of a class",
		Long: `Generate compiles the named class from the catalog into a closed JSON
Schema document. Every class, enum and built-in composite the class
references ends up in the document's $defs table, so the output is
self-contained.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := libraryFromFlags(cmd)
			if err != nil {
				return err
			}
			compiled, err := lib.ClassSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			switch format {
			case "json":
				out, err := compiled.Root.ToJSONIndent()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case "yaml":
				out, err := compiled.YAML()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			case "response-format":
				name, err := cmd.Flags().GetString("name")
				if err != nil {
					return err
				}
				if name == "" {
					name = args[0]
				}
				out, err := marshalIndent(compiled.ResponseFormat(name))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			default:
				return fmt.Errorf("invalid output format: %s", format)
			}
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.Flags().StringP("output", "o", "json", "output format (json, yaml, response-format)")
	cmd.Flags().String("name", "", "schema name for the response-format output (defaults to the class name)")
	return cmd
}
