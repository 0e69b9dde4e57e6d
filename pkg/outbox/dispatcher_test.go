package outbox

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
)

type captureProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *captureProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func TestDispatchBuildsMessage(t *testing.T) {
	p := &captureProducer{}
	d := NewDispatcher(slog.Default(), p, "order.events")

	err := d.Dispatch(context.Background(), Event{
		ID:            1,
		AggregateType: "order",
		AggregateID:   "42",
		Type:          "order.placed",
		Payload:       []byte(`{"orderId":42}`),
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(p.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(p.msgs))
	}
	msg := p.msgs[0]
	if msg.Topic != "order.events" {
		t.Errorf("topic = %q", msg.Topic)
	}
	if string(msg.Key) != "42" {
		t.Errorf("key = %q, want aggregate id", msg.Key)
	}
	var foundType bool
	for _, h := range msg.Headers {
		if h.Key == "event_type" && string(h.Value) == "order.placed" {
			foundType = true
		}
	}
	if !foundType {
		t.Error("event_type header missing")
	}
}

func TestDispatchPropagatesProducerError(t *testing.T) {
	p := &captureProducer{err: errors.New("broker down")}
	d := NewDispatcher(slog.Default(), p, "order.events")
	if err := d.Dispatch(context.Background(), Event{ID: 1}); err == nil {
		t.Error("expected producer error to propagate")
	}
}
