package broker

import (
	"context"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
)

// HandlerRegistry routes decoded change events to the handler registered for
// their broker topic. Unregistered topics are ignored.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

// Topics lists every registered broker topic, one consumer each.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, topic string, ev *domain.ChangeEvent) error {
	if handler, ok := r.handlers[topic]; ok {
		return handler.Handle(ctx, ev)
	}
	return nil
}
