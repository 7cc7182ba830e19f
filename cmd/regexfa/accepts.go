package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var acceptsStrict bool

func init() {
	cmd := newAcceptsCmd()
	cmd.Flags().BoolVar(&acceptsStrict, "strict", false, "Fail if any input is rejected")
	rootCmd.AddCommand(cmd)
}

func newAcceptsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accepts <pattern> <input>...",
		Short: "Test inputs for membership in the language of a pattern",
		Long: `The accepts command reports, for every input, whether the whole input
belongs to the language of the pattern.

Example:
  regexfa accepts 'a*b' aab ba
  regexfa accepts '(a|b)+' "" --strict`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}
			type result struct {
				Input    string `json:"input"`
				Accepted bool   `json:"accepted"`
			}
			results := make([]result, 0, len(args)-1)
			rejected := 0
			for _, in := range args[1:] {
				ok := re.MatchString(normalize(in))
				if !ok {
					rejected++
				}
				results = append(results, result{Input: in, Accepted: ok})
			}

			if jsonOut {
				if err := printJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					verdict := "REJECT"
					if r.Accepted {
						verdict = "ACCEPT"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verdict, strconv.Quote(r.Input))
				}
			}
			if acceptsStrict && rejected > 0 {
				return fmt.Errorf("%d of %d inputs rejected", rejected, len(results))
			}
			return nil
		},
	}
}
