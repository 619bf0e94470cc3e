package auth

import (
	evbus "github.com/asaskevich/EventBus"
)

// TopicSessionEnded is published when the session can no longer be renewed.
const TopicSessionEnded = "session:ended"

// SessionEnded is the payload of TopicSessionEnded.
type SessionEnded struct {
	Reason error
}

// Events carries session notifications to whoever drives the UI.
type Events struct {
	bus evbus.Bus
}

func NewEvents() *Events {
	return &Events{bus: evbus.New()}
}

// OnSessionEnded registers fn; it runs synchronously on the goroutine that
// detected the failure.
func (e *Events) OnSessionEnded(fn func(SessionEnded)) error {
	return e.bus.Subscribe(TopicSessionEnded, fn)
}

func (e *Events) publishSessionEnded(reason error) {
	e.bus.Publish(TopicSessionEnded, SessionEnded{Reason: reason})
}
