package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/psds-microservice/admin-console/internal/workflow"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
	// block, when set, holds every write until it is closed.
	block chan struct{}
	// writesAfterClose counts messages that arrived once Close had run.
	writesAfterClose int
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.writesAfterClose += len(msgs)
	}
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

var at = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

func TestNewProducerWithoutBrokersIsNoop(t *testing.T) {
	p := NewProducer(nil, "admin.audit", nil)
	assert.False(t, p.Enabled())
	p.Publish(context.Background(), workflow.Event{Feature: "kyc", Action: "approve"})
	assert.NoError(t, p.Close())

	p = NewProducer([]string{"localhost:9092"}, "", zap.NewNop())
	assert.False(t, p.Enabled())
}

func TestEncode(t *testing.T) {
	e := workflow.Event{Feature: "kyc", Action: "approve", RecordID: "k1", Status: "approved", ActorID: "u1", At: at}
	msg, err := encode(e)
	require.NoError(t, err)

	assert.Equal(t, "k1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, "kyc.approve", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "kyc.approve", body["event"])
	assert.Equal(t, "k1", body["record_id"])
	assert.Equal(t, "u1", body["actor_id"])
	assert.NotContains(t, body, "count")
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "tickets.bulk_reject", EventName(workflow.Event{Feature: "tickets", Action: "bulk_reject"}))
}

func TestPublishWritesInBackground(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "admin.audit", log: zap.NewNop(), timeout: time.Second}
	require.True(t, p.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, workflow.Event{Feature: "tickets", Action: "assign", RecordID: "t1", At: at})

	require.Eventually(t, func() bool { return len(w.written()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "t1", string(w.written()[0].Key))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishSwallowsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "admin.audit", log: zap.NewNop(), timeout: time.Second}

	p.Publish(context.Background(), workflow.Event{Feature: "kyc", Action: "reject", RecordID: "k2"})
	require.Eventually(t, func() bool { return len(w.written()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestCloseWaitsForPendingWrites(t *testing.T) {
	w := &fakeWriter{block: make(chan struct{})}
	p := &Producer{writer: w, topic: "admin.audit", log: zap.NewNop(), timeout: time.Second}

	for _, id := range []string{"k1", "k2", "k3"} {
		p.Publish(context.Background(), workflow.Event{Feature: "kyc", Action: "approve", RecordID: id})
	}

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while writes were still pending")
	case <-time.After(50 * time.Millisecond):
	}

	close(w.block)
	require.NoError(t, <-closed)
	assert.Len(t, w.written(), 3)
	assert.Zero(t, w.writesAfterClose)
	assert.True(t, w.closed)
}
