package cache

import (
	"context"
	"errors"
	"log/slog"

	"regexfa/internal/logging"
	"regexfa/internal/regexlib"
)

// Compiler builds DFAs, reusing entries from an optional Store. A failing
// store never fails a compile; the DFA is built locally instead.
type Compiler struct {
	store *Store
	log   *slog.Logger
}

// NewCompiler returns a Compiler. store may be nil.
func NewCompiler(store *Store, log *slog.Logger) *Compiler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Compiler{store: store, log: log}
}

// Compile returns the DFA for pattern and whether it came from the cache.
// Only pattern errors (parse errors and ErrInvalidUTF8) are returned.
func (c *Compiler) Compile(ctx context.Context, pattern string) (*regexlib.DFA, bool, error) {
	if c.store != nil {
		d, err := c.store.Get(ctx, pattern)
		switch {
		case err == nil:
			c.log.Debug("dfa cache hit", "pattern", pattern, "states", len(d.States))
			return d, true, nil
		case errors.Is(err, ErrMiss):
			c.log.Debug("dfa cache miss", "pattern", pattern)
		default:
			c.log.Warn("dfa cache read failed", "pattern", pattern, "error", err)
		}
	}

	re, err := regexlib.Compile(pattern)
	if err != nil {
		return nil, false, err
	}
	d := re.DFA()

	if c.store != nil {
		if err := c.store.Put(ctx, pattern, d); err != nil {
			c.log.Warn("dfa cache write failed", "pattern", pattern, "error", err)
		}
	}
	return d, false, nil
}
