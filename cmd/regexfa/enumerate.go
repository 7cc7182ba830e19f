package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var enumerateMaxLen int

func init() {
	cmd := newEnumerateCmd()
	cmd.Flags().IntVarP(&enumerateMaxLen, "max-len", "n", -1, "Longest string to list (default: enumerate.max_len)")
	rootCmd.AddCommand(cmd)
}

func newEnumerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enumerate <pattern>",
		Short: "List the accepted strings up to a length",
		Long: `The enumerate command lists every string the pattern accepts whose length
is at most --max-len symbols, shortest first and then in lexicographic order.
The output grows exponentially with the bound.

Example:
  regexfa enumerate '(a|b)*c' -n 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := cfg.Enumerate.MaxLen
			if cmd.Flags().Changed("max-len") {
				n = enumerateMaxLen
			}
			if n < 0 {
				return fmt.Errorf("--max-len must be >= 0, got %d", n)
			}
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}
			words := re.DFA().Enumerate(n)
			logger.Debug("enumerated", "pattern", re.String(), "max_len", n, "count", len(words))

			if jsonOut {
				if words == nil {
					words = []string{}
				}
				return printJSON(cmd.OutOrStdout(), words)
			}
			for _, w := range words {
				fmt.Fprintln(cmd.OutOrStdout(), strconv.Quote(w))
			}
			return nil
		},
	}
}
