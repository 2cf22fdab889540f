// Package event publishes domain events such as newly created predictions.
package event

import (
	"context"
	"fmt"
	"strings"

	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
)

type EventBus interface {
	// Publish sends payload to topic. Values other than []byte and string are
	// JSON encoded.
	Publish(ctx context.Context, topic string, payload any) error
	// Subscribe delivers every message on topic to handler until ctx is done.
	Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error
	Close() error
}

// NewInProcEventBus returns a new in-memory event bus.
func NewInProcEventBus() *WatermillEventBus {
	return NewWatermillInMemBus()
}

// NewEventBusFromConfig returns an EventBus based on config. Supported:
// memory (default) and nats (NATS Streaming, requires url).
func NewEventBusFromConfig(cfg config.EventConfig) (EventBus, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", constants.EventDriverMemory:
		return NewWatermillInMemBus(), nil
	case constants.EventDriverNATS:
		if cfg.URL == "" {
			return nil, fmt.Errorf("NATS driver requires url")
		}
		clusterID, clientID := cfg.ClusterID, cfg.ClientID
		if clusterID == "" {
			clusterID = constants.ServiceName
		}
		if clientID == "" {
			clientID = constants.ServiceName + "-client"
		}
		return NewWatermillNATSBus(clusterID, clientID, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported event bus driver: %s", cfg.Driver)
	}
}
