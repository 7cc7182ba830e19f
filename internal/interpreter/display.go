package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"regexfa/internal/regexlib"
)

// Player prints a DFA walk one step at a time, pausing Delay between steps.
type Player struct {
	Out     io.Writer
	Delay   time.Duration
	profile termenv.Profile
	sleep   func(time.Duration)
}

// NewPlayer returns a Player. color enables ANSI colours in the profile the
// terminal supports.
func NewPlayer(out io.Writer, delay time.Duration, color bool) *Player {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}
	return &Player{Out: out, Delay: delay, profile: profile, sleep: time.Sleep}
}

func (p *Player) paint(s, hex string) string {
	return termenv.String(s).Foreground(p.profile.Color(hex)).String()
}

// Play traces input through d and reports whether it was accepted.
func (p *Player) Play(d *regexlib.DFA, input string) bool {
	steps := d.Trace(input)
	for i, st := range steps {
		if i > 0 && p.Delay > 0 {
			p.sleep(p.Delay)
		}
		line := st.String()
		switch st.Kind {
		case regexlib.StepMove:
			if d.IsDead(st.To) {
				line = p.paint(line+" (dead)", "#E06C75")
			} else {
				line = p.paint(line, "#61AFEF")
			}
		case regexlib.StepReject:
			line = p.paint(line, "#E06C75")
		case regexlib.StepEnd:
			if d.States[st.From].Final {
				line = p.paint(line+" (final)", "#98C379")
			} else {
				line = p.paint(line, "#E5C07B")
			}
		}
		fmt.Fprintf(p.Out, "  %s\n", line)
	}
	ok := d.Accepted(steps)
	verdict := p.paint("REJECTED", "#E06C75")
	if ok {
		verdict = p.paint("ACCEPTED", "#98C379")
	}
	fmt.Fprintf(p.Out, "  %s\n", verdict)
	return ok
}
