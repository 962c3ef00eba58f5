// pkg/engine/simulation.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/opd-ai/torque2d/pkg/event"
	"github.com/opd-ai/torque2d/pkg/logging"
	"github.com/opd-ai/torque2d/pkg/physics"
)

// Discrete commands understood by OnCommand.
const (
	CommandMirror  = "mirror"
	CommandRopes   = "ropes"
	CommandGravity = "gravity"
	CommandReset   = "reset"
)

// ErrUnknownCommand is returned by OnCommand for names it does not know.
var ErrUnknownCommand = errors.New("unknown command")

// ErrNoBodies is returned by NewSimulation when given nothing to simulate.
var ErrNoBodies = errors.New("simulation needs at least one body")

// Simulation owns a fixed set of bodies and advances them one tick at a
// time. It is not safe for concurrent use: ticks, pointer events and
// commands must all arrive on the same goroutine.
type Simulation struct {
	bodies  []*physics.Body
	initial []*physics.Body

	gravity        physics.Vector2D
	gravityEnabled bool

	currentTick uint64

	bus    *event.Bus
	logger *logging.Logger
	ctx    context.Context
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithGravity sets the constant acceleration added to every body each tick.
func WithGravity(g physics.Vector2D) Option {
	return func(s *Simulation) { s.gravity = g }
}

// WithEventBus publishes tug and command events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(s *Simulation) { s.bus = bus }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// WithContext sets the context attached to log entries, e.g. one carrying
// a run ID.
func WithContext(ctx context.Context) Option {
	return func(s *Simulation) { s.ctx = ctx }
}

// NewSimulation validates bodies and takes ownership of them. The initial
// state is remembered for the reset command.
func NewSimulation(bodies []*physics.Body, opts ...Option) (*Simulation, error) {
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	for i, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("body %d: %w: nil", i, physics.ErrInvalidBody)
		}
		if err := b.Validate(); err != nil {
			return nil, logging.WrapError(err, "body %d", i)
		}
	}

	s := &Simulation{
		bodies:         append([]*physics.Body(nil), bodies...),
		initial:        make([]*physics.Body, len(bodies)),
		gravityEnabled: true,
		bus:            event.NewEventBus(),
		logger:         logging.Discard(),
		ctx:            context.Background(),
	}
	for i, b := range bodies {
		s.initial[i] = b.Clone()
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info(s.ctx, "simulation created",
		"bodies", len(bodies),
		"gravity_x", s.gravity.X,
		"gravity_y", s.gravity.Y,
	)
	return s, nil
}

// Tick advances every body by one step. Bodies do not interact.
func (s *Simulation) Tick() {
	for _, b := range s.bodies {
		acc := b.TugAcceleration()
		if s.gravityEnabled {
			acc.Position = acc.Position.Add(s.gravity)
		}
		b.Integrate(acc)
	}
	s.currentTick++
}

// CurrentTick returns the number of ticks since creation or the last reset.
func (s *Simulation) CurrentTick() uint64 {
	return s.currentTick
}

// Len returns the number of bodies.
func (s *Simulation) Len() int {
	return len(s.bodies)
}

// Body returns a copy of body i for inspection.
func (s *Simulation) Body(i int) *physics.Body {
	return s.bodies[i].Clone()
}

// Gravity returns the configured gravity and whether it is applied.
func (s *Simulation) Gravity() (physics.Vector2D, bool) {
	return s.gravity, s.gravityEnabled
}

// EventBus returns the bus events are published on.
func (s *Simulation) EventBus() *event.Bus {
	return s.bus
}

// OnPointerActivate grabs every body whose tug range contains p. An already
// grabbed body is re-anchored when p is in range; otherwise only its target
// moves.
func (s *Simulation) OnPointerActivate(p physics.Vector2D) {
	for i, b := range s.bodies {
		local := b.BodyFramePoint(p)
		live := b.Tuggers[physics.LiveSlot]

		if local.Length > b.MaxTugDistance {
			if live != nil {
				live.Target = p
			}
			continue
		}

		b.Tuggers[physics.LiveSlot] = &physics.Tugger{Anchor: local, Target: p}
		s.logger.Debug(s.ctx, "tug attached", "body", i, "anchor_length", local.Length, "anchor_angle", local.Angle)
		s.bus.Publish(event.NewTugEvent(event.TugAttached, s, i, p.X, p.Y))
	}
}

// OnPointerMove retargets every live tug.
func (s *Simulation) OnPointerMove(p physics.Vector2D) {
	for _, b := range s.bodies {
		if live := b.Tuggers[physics.LiveSlot]; live != nil {
			live.Target = p
		}
	}
}

// OnPointerRelease drops every live tug.
func (s *Simulation) OnPointerRelease() {
	for i, b := range s.bodies {
		live := b.Tuggers[physics.LiveSlot]
		if live == nil {
			continue
		}
		anchor := b.WorldAnchor(live.Anchor)
		b.Tuggers[physics.LiveSlot] = nil
		s.logger.Debug(s.ctx, "tug released", "body", i)
		s.bus.Publish(event.NewTugEvent(event.TugReleased, s, i, anchor.X, anchor.Y))
	}
}

// OnCommand applies a discrete command by name.
func (s *Simulation) OnCommand(name string) error {
	switch name {
	case CommandMirror:
		s.eachRope(func(t *physics.Tugger) {
			t.Target.X, t.Target.Y = t.Target.Y, t.Target.X
		})
	case CommandRopes:
		s.eachRope(func(t *physics.Tugger) {
			t.Suspended = !t.Suspended
		})
	case CommandGravity:
		s.gravityEnabled = !s.gravityEnabled
	case CommandReset:
		for i, b := range s.initial {
			s.bodies[i] = b.Clone()
		}
		s.currentTick = 0
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	s.logger.Info(s.ctx, "command applied", "command", name, "tick", s.currentTick)
	s.bus.Publish(event.NewCommandEvent(s, name, s.currentTick))
	return nil
}

func (s *Simulation) eachRope(fn func(*physics.Tugger)) {
	for _, b := range s.bodies {
		for slot, t := range b.Tuggers {
			if slot == physics.LiveSlot || t == nil {
				continue
			}
			fn(t)
		}
	}
}
