package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"regexfa/internal/interpreter"
	"regexfa/internal/regexlib"
)

var (
	traceNFA   bool
	traceDelay time.Duration
)

func init() {
	cmd := newTraceCmd()
	cmd.Flags().BoolVar(&traceNFA, "nfa", false, "Trace the NFA active sets instead of the DFA")
	cmd.Flags().DurationVar(&traceDelay, "delay", 0, "Pause between steps (default: trace.delay on a terminal, 0 otherwise)")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <pattern> <input>",
		Short: "Show the state sequence an input drives the automaton through",
		Long: `The trace command walks the DFA over the input one symbol at a time and
prints every transition taken, stopping early on a symbol outside the alphabet.

Example:
  regexfa trace 'a*b' aab
  regexfa trace 'a*b' aab --nfa
  regexfa trace 'a*b' aab --delay 500ms`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := compilePattern(args[0])
			if err != nil {
				return err
			}
			input := normalize(args[1])
			out := cmd.OutOrStdout()

			if traceNFA {
				return traceNFASteps(out, re.NFA(), input)
			}
			if jsonOut {
				steps := re.DFA().Trace(input)
				return printJSON(out, map[string]interface{}{
					"accepted": re.DFA().Accepted(steps),
					"steps":    steps,
				})
			}

			delay := time.Duration(0)
			if cmd.Flags().Changed("delay") {
				delay = traceDelay
			} else if isTerminal(out) {
				delay = cfg.Trace.Delay
			}
			interpreter.NewPlayer(out, delay, useColor(out)).Play(re.DFA(), input)
			return nil
		},
	}
}

func traceNFASteps(w io.Writer, n *regexlib.NFA, input string) error {
	steps := n.Trace(input)
	if jsonOut {
		return printJSON(w, map[string]interface{}{
			"accepted": n.Accepts(input),
			"steps":    steps,
		})
	}

	for _, st := range steps {
		switch st.Kind {
		case regexlib.StepStart:
			fmt.Fprintf(w, "  start %s\n", setLabel(st.Active))
		case regexlib.StepMove:
			fmt.Fprintf(w, "  %s --%s--> %s\n", setLabel(st.Active), strconv.QuoteRune(st.Symbol), setLabel(st.Next))
		case regexlib.StepReject:
			fmt.Fprintf(w, "  %s --%s--> no transition\n", setLabel(st.Active), strconv.QuoteRune(st.Symbol))
		case regexlib.StepEnd:
			fmt.Fprintf(w, "  end %s\n", setLabel(st.Active))
		}
	}
	verdict := "REJECTED"
	if n.Accepts(input) {
		verdict = "ACCEPTED"
	}
	fmt.Fprintf(w, "  %s\n", verdict)
	return nil
}

func setLabel(set []int) string {
	parts := make([]string, len(set))
	for i, id := range set {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
