package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"regexfa/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage DFAs cached in Redis",
	Long: `List, inspect and remove the compiled DFAs that serve keeps in the Redis
server named by cache.redis_addr.`,
}

var cacheLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		patterns, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOut {
			if patterns == nil {
				patterns = []string{}
			}
			return printJSON(out, patterns)
		}
		if len(patterns) == 0 {
			fmt.Fprintln(out, "No cached patterns.")
			return nil
		}
		for _, p := range patterns {
			fmt.Fprintf(out, "%q\n", p)
		}
		return nil
	},
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect <pattern>",
	Short: "Print the cached DFA of a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		pattern := normalize(args[0])
		d, err := store.Get(cmd.Context(), pattern)
		if errors.Is(err, cache.ErrMiss) {
			return fmt.Errorf("pattern %q is not cached", pattern)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), d)
	},
}

var cacheRmCmd = &cobra.Command{
	Use:   "rm <pattern>...",
	Short: "Remove cached patterns",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var errs []error
		for _, p := range args {
			p = normalize(p)
			if err := store.Delete(cmd.Context(), p); err != nil {
				errs = append(errs, fmt.Errorf("remove %q: %w", p, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", p)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheLsCmd)
	cacheCmd.AddCommand(cacheInspectCmd)
	cacheCmd.AddCommand(cacheRmCmd)
}

func cacheStore() (*cache.Store, error) {
	if cfg.Cache.RedisAddr == "" {
		return nil, errors.New("cache.redis_addr is not set")
	}
	return newStore(), nil
}
