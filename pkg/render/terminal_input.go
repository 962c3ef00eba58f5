package render

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalInput turns tcell events into simulation input. Terminals only
// report button state, so press, drag and release are derived from the
// change in that state between mouse events.
type TerminalInput struct {
	renderer     *TerminalRenderer
	pressed      bool
	lastX, lastY int
}

// NewTerminalInput creates an input handler using r's coordinate mapping.
func NewTerminalInput(r *TerminalRenderer) *TerminalInput {
	return &TerminalInput{renderer: r}
}

// HandleEvent applies ev to c. It reports quit for escape, ctrl-c and q,
// and returns the error of a rejected command.
func (in *TerminalInput) HandleEvent(ev tcell.Event, c Controller) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		in.handleMouse(ev, c)
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return true, nil
			}
			if name, ok := KeyCommands[ev.Rune()]; ok {
				return false, c.OnCommand(name)
			}
		}
	case *tcell.EventResize:
		in.renderer.screen.Sync()
	}
	return false, nil
}

func (in *TerminalInput) handleMouse(ev *tcell.EventMouse, c Controller) {
	x, y := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	p := in.renderer.ScreenToWorld(x, y)

	switch {
	case down && !in.pressed:
		c.OnPointerActivate(p)
	case down && (x != in.lastX || y != in.lastY):
		c.OnPointerMove(p)
	case !down && in.pressed:
		c.OnPointerRelease()
	}
	in.pressed = down
	in.lastX, in.lastY = x, y
}
