package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"regexfa/internal/interpreter"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>...",
		Short: "Execute session scripts",
		Long: `The run command executes scripts of let, accept, reject, trace, enumerate
and show statements. A script stops at the first failed assertion. Use '-' to
read a script from stdin.

Example script:
  let A = "(a|b)*abb";
  let B = A & !"(a|b)*bb(a|b)*";
  accept A "aabb";
  reject B "abb";
  trace A "babb";
  enumerate B 4;`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				if err := runScript(cmd, out, path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runScript(cmd *cobra.Command, out io.Writer, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	prog, err := interpreter.Parse(path, string(data))
	if err != nil {
		return err
	}

	delay := time.Duration(0)
	if isTerminal(out) {
		delay = cfg.Trace.Delay
	}
	ctx := interpreter.NewContext(out)
	ctx.Player = interpreter.NewPlayer(out, delay, useColor(out))
	ctx.Log = logger
	ctx.Normalize = cfg.Normalizer()
	ctx.MaxEnumerate = cfg.Enumerate.Limit

	logger.Debug("running script", "path", path, "statements", len(prog.Statements))
	if err := prog.Exec(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d assertions passed\n", path, ctx.Passed)
	return nil
}
