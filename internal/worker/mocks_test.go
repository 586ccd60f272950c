package worker_test

import (
	"context"
	"sync"

	"altis.app/tracker/internal/queue"
)

type settled struct {
	msg    queue.Message
	errMsg string
	retry  queue.Retry
}

type mockConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	readErr  error
	acked    []queue.Message
	requeued []settled
	dlq      []settled
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.batches) == 0 {
		return nil, nil
	}
	batch := m.batches[0]
	m.batches = m.batches[1:]
	return batch, nil
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg)
	return nil
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, retry queue.Retry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, settled{msg: msg, errMsg: retry.Reason, retry: retry})
	return nil
}

func (m *mockConsumer) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, settled{msg: msg, errMsg: errMsg})
	return nil
}

func (m *mockConsumer) counts() (acked, requeued, dlq int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked), len(m.requeued), len(m.dlq)
}

type mockEmitter struct {
	mu       sync.Mutex
	emitFn   func(ctx context.Context, ev queue.ActivityEvent) error
	received []queue.ActivityEvent
}

func (m *mockEmitter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.received)
}

func (m *mockEmitter) Emit(ctx context.Context, ev queue.ActivityEvent) error {
	m.mu.Lock()
	m.received = append(m.received, ev)
	m.mu.Unlock()
	if m.emitFn != nil {
		return m.emitFn(ctx, ev)
	}
	return nil
}

func message(id string, attempt int) queue.Message {
	return queue.Message{
		ID:      id,
		Attempt: attempt,
		Event: queue.ActivityEvent{
			ActivityID:     1,
			IssueID:        2,
			OrganizationID: 3,
			Action:         "created",
			Attempt:        attempt,
		},
	}
}
