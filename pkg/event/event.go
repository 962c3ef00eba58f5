// pkg/event/event.go
package event

// Type represents the type of event
type Type string

// Simulation event types
const (
	TugAttached    Type = "tug_attached"
	TugReleased    Type = "tug_released"
	CommandApplied Type = "command_applied"
	SceneReloaded  Type = "scene_reloaded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() any
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    any
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() any {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed.
type Subscription struct {
	eventType Type
	id        uint64
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously on the publishing goroutine.
// It is not safe for concurrent use; the simulation and its frontend share
// one loop goroutine.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) Subscription {
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: b.nextID, handler: handler})
	return Subscription{eventType: eventType, id: b.nextID}
}

// Unsubscribe removes the handler registered under sub.
// Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	regs := b.handlers[sub.eventType]
	for i, r := range regs {
		if r.id == sub.id {
			b.handlers[sub.eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers in subscription order
func (b *Bus) Publish(event Event) {
	for _, r := range b.handlers[event.GetType()] {
		r.handler(event)
	}
}

// TugEvent reports a live tug attaching to or releasing a body
type TugEvent struct {
	BaseEvent
	BodyIndex int
	// Anchor is the world-space anchor point at the time of the event.
	AnchorX, AnchorY float64
}

// NewTugEvent creates a new tug event
func NewTugEvent(eventType Type, source any, bodyIndex int, anchorX, anchorY float64) *TugEvent {
	return &TugEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyIndex: bodyIndex,
		AnchorX:   anchorX,
		AnchorY:   anchorY,
	}
}

// CommandEvent reports a discrete command applied to the simulation
type CommandEvent struct {
	BaseEvent
	Command string
	Tick    uint64
}

// NewCommandEvent creates a new command event
func NewCommandEvent(source any, command string, tick uint64) *CommandEvent {
	return &CommandEvent{
		BaseEvent: BaseEvent{
			EventType: CommandApplied,
			Source:    source,
		},
		Command: command,
		Tick:    tick,
	}
}

// ReloadEvent reports a scene file that was loaded again from disk
type ReloadEvent struct {
	BaseEvent
	Path   string
	Bodies int
}

// NewReloadEvent creates a new reload event
func NewReloadEvent(source any, path string, bodies int) *ReloadEvent {
	return &ReloadEvent{
		BaseEvent: BaseEvent{
			EventType: SceneReloaded,
			Source:    source,
		},
		Path:   path,
		Bodies: bodies,
	}
}
