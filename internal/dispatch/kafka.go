package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
)

// Kafka mirrors every packet onto a topic for downstream processing.
// Writes are async and batched, so Dispatch never blocks the flush cycle.
type Kafka struct {
	writer *kafka.Writer
	id     identity.Identity
}

func NewKafka(brokers []string, topic string, id identity.Identity) *Kafka {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 100 * time.Millisecond,
		Async:        true,
	}
	return &Kafka{writer: writer, id: id}
}

// Dispatch publishes the packet keyed by session UUID, so one session's
// packets land on one partition in order.
func (k *Kafka) Dispatch(snap collector.Snapshot) {
	packet := BuildPacket(snap, k.id)

	data, err := json.Marshal(packet)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode packet for Kafka")
		return
	}

	msg := kafka.Message{
		Key:   []byte(k.id.SessionUUID),
		Value: data,
	}
	if err := k.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Error().Err(err).Msg("Failed to publish packet to Kafka")
	}
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

var _ collector.Dispatcher = (*Kafka)(nil)
