package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"regexfa/internal/regexlib"
)

var (
	dotNFA    bool
	dotOutput string
	dotFormat string
)

func init() {
	cmd := newDotCmd()
	cmd.Flags().BoolVar(&dotNFA, "nfa", false, "Draw the Thompson NFA instead of the DFA")
	cmd.Flags().StringVarP(&dotOutput, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVarP(&dotFormat, "format", "T", "dot", "Output format; anything but dot is rendered by Graphviz (png, svg, ...)")
	rootCmd.AddCommand(cmd)
}

func newDotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot <pattern>",
		Short: "Export the automaton as a Graphviz graph",
		Long: `The dot command writes a Graphviz description of the DFA (or, with --nfa,
of the NFA). With --format png or svg the graph is rendered by the dot tool,
which must be on PATH.

Example:
  regexfa dot '(a|b)*abb' | dot -Tsvg > dfa.svg
  regexfa dot 'a+' --nfa -o nfa.dot
  regexfa dot 'a+' -T png -o dfa.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if dotNFA {
				err = regexlib.WriteNFADOT(&buf, re.NFA())
			} else {
				err = regexlib.WriteDOT(&buf, re.DFA())
			}
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), cmd.ErrOrStderr(), buf.Bytes())
		},
	}
}

// writeGraph sends the DOT source, or its Graphviz rendering, to dotOutput
// or out.
func writeGraph(out, errOut io.Writer, src []byte) (err error) {
	var w io.Writer = out
	if dotOutput != "" {
		f, ferr := os.Create(dotOutput)
		if ferr != nil {
			return fmt.Errorf("failed to create output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if dotFormat == "" || dotFormat == "dot" {
		_, err = w.Write(src)
		return err
	}

	render := exec.Command("dot", "-T"+dotFormat)
	render.Stdin = bytes.NewReader(src)
	render.Stdout = w
	render.Stderr = errOut
	if err := render.Run(); err != nil {
		return fmt.Errorf("dot -T%s failed: %w", dotFormat, err)
	}
	logger.Debug("rendered graph", "format", dotFormat, "output", dotOutput)
	return nil
}
