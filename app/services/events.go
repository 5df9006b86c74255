package services

import (
	"github.com/asaskevich/EventBus"
)

// Event topics published by the application services.
const (
	TopicUserRegistered = "user.registered"
)

// Bus is a thin wrapper over the process-local event bus, shared through the
// container as the "events" identity.
type Bus struct {
	bus EventBus.Bus
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

// Publish fires topic with args, synchronously invoking every subscriber.
func (b *Bus) Publish(topic string, args ...any) {
	b.bus.Publish(topic, args...)
}

// Subscribe registers fn (a func whose signature matches the published args)
// for topic.
func (b *Bus) Subscribe(topic string, fn any) error {
	return b.bus.Subscribe(topic, fn)
}

// Unsubscribe removes fn from topic.
func (b *Bus) Unsubscribe(topic string, fn any) error {
	return b.bus.Unsubscribe(topic, fn)
}
