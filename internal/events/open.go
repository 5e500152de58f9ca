package events

import (
	"context"
	"fmt"

	"github.com/shopsmart/apiserver/config"
)

// Open selects and connects the configured broker backend. An empty
// backend name yields a publisher that drops events.
func Open(ctx context.Context, cfg config.MQConfig) (*Publisher, error) {
	switch cfg.Backend {
	case "":
		return NewPublisher(nil), nil
	case "rabbitmq":
		backend, err := NewRabbitMQBackend(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		return NewPublisher(backend), nil
	case "pubsub":
		backend, err := NewPubSubBackend(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("connect pubsub: %w", err)
		}
		return NewPublisher(backend), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}
