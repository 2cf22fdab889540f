package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	stan "github.com/nats-io/stan.go"
	"github.com/roadwise/roadwise/utils"
)

// metadataRequestID carries the originating request ID on each message.
const metadataRequestID = "request_id"

// WatermillEventBus satisfies our EventBus interface using Watermill.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

var _ EventBus = (*WatermillEventBus)(nil)

// NewWatermillInMemBus returns a Watermill-based, in-memory bus.
func NewWatermillInMemBus() *WatermillEventBus {
	logger := watermill.NewStdLogger(false, false)
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 100}, logger)
	return &WatermillEventBus{publisher: ps, subscriber: ps}
}

// NewWatermillNATSBus returns a NATS Streaming backed bus.
func NewWatermillNATSBus(clusterID, clientID, url string) (*WatermillEventBus, error) {
	logger := watermill.NewStdLogger(false, false)
	pub, err := nats.NewStreamingPublisher(nats.StreamingPublisherConfig{
		ClusterID:   clusterID,
		ClientID:    clientID + "-pub",
		StanOptions: []stan.Option{stan.NatsURL(url)},
		Marshaler:   nats.GobMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	sub, err := nats.NewStreamingSubscriber(nats.StreamingSubscriberConfig{
		ClusterID:        clusterID,
		ClientID:         clientID + "-sub",
		QueueGroup:       clientID,
		DurableName:      clientID,
		StanOptions:      []stan.Option{stan.NatsURL(url)},
		CloseTimeout:     30 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		SubscribersCount: 1,
		Unmarshaler:      nats.GobMarshaler{},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}
	return &WatermillEventBus{publisher: pub, subscriber: sub}, nil
}

func (b *WatermillEventBus) Publish(ctx context.Context, topic string, payload any) error {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
		}
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id, ok := utils.RequestIDFromContext(ctx); ok && id != "" {
		msg.Metadata.Set(metadataRequestID, id)
	}
	return b.publisher.Publish(topic, msg)
}

func (b *WatermillEventBus) Subscribe(ctx context.Context, topic string, handler func(payload []byte)) error {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	go func() {
		for msg := range ch {
			handler(msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}

func (b *WatermillEventBus) Close() error {
	err := b.publisher.Close()
	if any(b.subscriber) != any(b.publisher) {
		err = errors.Join(err, b.subscriber.Close())
	}
	return err
}
