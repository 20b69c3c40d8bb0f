// Package audit publishes successful review actions to Kafka.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/psds-microservice/admin-console/internal/workflow"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes workflow events to a topic. Delivery is best-effort and never
// blocks the caller.
type Producer struct {
	writer  messageWriter
	topic   string
	log     *zap.Logger
	timeout time.Duration
	pending sync.WaitGroup
}

// NewProducer returns a no-op producer when brokers or topic are empty.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Producer{topic: topic, log: log, timeout: 5 * time.Second}
	if len(brokers) == 0 || topic == "" {
		return p
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return p
}

func (p *Producer) Enabled() bool { return p.writer != nil }

// Publish sends e in the background, detached from ctx so a finished request
// does not cancel the write.
func (p *Producer) Publish(_ context.Context, e workflow.Event) {
	if p.writer == nil {
		return
	}
	name := EventName(e)
	msg, err := encode(e)
	if err != nil {
		p.log.Warn("audit: marshal event", zap.Error(err))
		return
	}
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warn("audit: write event", zap.String("topic", p.topic), zap.String("event", name), zap.Error(err))
		}
	}()
}

// EventName is the routing name of e, e.g. "kyc.approve" or "tickets.bulk_reject".
func EventName(e workflow.Event) string {
	return e.Feature + "." + e.Action
}

type record struct {
	Name string `json:"event"`
	workflow.Event
}

func encode(e workflow.Event) (kafka.Message, error) {
	body, err := json.Marshal(record{Name: EventName(e), Event: e})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:     []byte(e.RecordID),
		Value:   body,
		Headers: []kafka.Header{{Key: "event", Value: []byte(EventName(e))}},
		Time:    e.At,
	}, nil
}

// Close waits for queued events to be written, then closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	p.pending.Wait()
	return p.writer.Close()
}
