package interpreter

import (
	"fmt"
	"io"
	"log/slog"

	"regexfa/internal/logging"
)

// Context stores the environment and where results go

type Context struct {
	Env    *Environment
	Out    io.Writer
	Player *Player
	Log    *slog.Logger
	// Normalize is applied to patterns and inputs; nil leaves them alone.
	Normalize func(string) string
	// MaxEnumerate bounds enumerate statements when positive (enumerate.limit).
	MaxEnumerate int
	// Passed counts the accept and reject assertions that held.
	Passed int
}

// NewContext returns a Context writing to out with an instant player.
func NewContext(out io.Writer) *Context {
	return &Context{
		Env:    NewEnvironment(),
		Out:    out,
		Player: NewPlayer(out, 0, false),
		Log:    logging.NewNop(),
	}
}

func (c *Context) lookup(name string) (*Binding, error) {
	b, ok := c.Env.Get(name)
	if !ok {
		return nil, fmt.Errorf("undefined automaton %s", name)
	}
	return b, nil
}

func (c *Context) normalize(s string) string {
	if c.Normalize == nil {
		return s
	}
	return c.Normalize(s)
}

func (c *Context) log() *slog.Logger {
	if c.Log == nil {
		return logging.NewNop()
	}
	return c.Log
}

func (c *Context) player() *Player {
	if c.Player == nil {
		c.Player = NewPlayer(c.Out, 0, false)
	}
	return c.Player
}
