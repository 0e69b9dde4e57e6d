package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewWriter builds the producer used by the outbox dispatcher for order
// lifecycle events. The topic is set per message by the dispatcher.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}
