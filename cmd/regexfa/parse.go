package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newParseCmd())
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Print the syntax tree of a pattern",
		Long: `The parse command prints the syntax tree of a pattern as an s-expression.

Example:
  regexfa parse '(a|b)*c'
  regexfa parse 'a(b' # reports where parsing stopped`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"pattern": re.String(),
					"ast":     re.AST().String(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), re.AST())
			return nil
		},
	}
}
