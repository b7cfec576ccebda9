package port

import (
	"context"

	"parkeoWs/internal/realtime/domain"
)

// TopicHandler reacts to a decoded change event from one broker topic.
type TopicHandler interface {
	// Topic is the broker topic this handler consumes.
	Topic() string
	Handle(ctx context.Context, ev *domain.ChangeEvent) error
}
