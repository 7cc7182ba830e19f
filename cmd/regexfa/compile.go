package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/spf13/cobra"

	"regexfa/internal/regexlib"
)

func init() {
	rootCmd.AddCommand(newCompileCmd())
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <pattern>",
		Short: "Print the DFA transition table of a pattern",
		Long: `The compile command prints the transition table of the complete DFA.
The start state is marked '->', final states '*', and the dead state, if any,
is flagged (dead). With --json the table is printed in its serialised form.

Example:
  regexfa compile 'a*b'
  regexfa compile 'a*b' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), re.DFA())
			}
			return writeTable(cmd.OutOrStdout(), re.DFA())
		},
	}
}

func writeTable(w io.Writer, d *regexlib.DFA) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"state"}
	for _, sym := range d.Alphabet {
		header = append(header, symLabel(sym))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, s := range d.States {
		label := fmt.Sprintf("q%d", s.ID)
		if s.Final {
			label = "*" + label
		}
		if s.ID == d.Start() {
			label = "->" + label
		}
		row := []string{label}
		for _, t := range s.Next {
			row = append(row, fmt.Sprintf("q%d", t))
		}
		if d.IsDead(s.ID) {
			row = append(row, "(dead)")
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func symLabel(r rune) string {
	if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
		return string(r)
	}
	return strconv.QuoteRune(r)
}
