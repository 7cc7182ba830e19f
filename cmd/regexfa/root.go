package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"regexfa/internal/config"
	"regexfa/internal/logging"
	"regexfa/internal/regexlib"
)

var (
	// Global flags
	cfgPath  string
	logLevel string
	jsonOut  bool
	noColor  bool

	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "regexfa",
	Short: "Compile regular expressions to finite automata and query them",
	Long: `regexfa parses a small regular expression language (literals, grouping,
alternation '|', Kleene star '*' and plus '+'), builds a Thompson NFA, converts
it to a complete DFA by subset construction and answers membership, trace and
enumeration queries against it.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// compilePattern normalises and compiles pattern. Parse errors carry a caret
// line pointing at the offending rune.
func compilePattern(pattern string) (*regexlib.Regex, error) {
	pattern = cfg.Normalizer()(pattern)
	re, err := regexlib.Compile(pattern)
	if err != nil {
		return nil, describeParseError(pattern, err)
	}
	logger.Debug("compiled pattern",
		"pattern", pattern,
		"nfa_states", len(re.NFA().States),
		"dfa_states", len(re.DFA().States),
	)
	return re, nil
}

func describeParseError(pattern string, err error) error {
	var pe *regexlib.ParseError
	if !errors.As(err, &pe) || pe.Pos > len(pattern) {
		return err
	}
	col := utf8.RuneCountInString(pattern[:pe.Pos])
	return fmt.Errorf("%w\n  %s\n  %s^", err, pattern, strings.Repeat(" ", col))
}

func normalize(s string) string {
	return cfg.Normalizer()(s)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func useColor(w io.Writer) bool {
	return !noColor && cfg.Trace.Color && isTerminal(w)
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
