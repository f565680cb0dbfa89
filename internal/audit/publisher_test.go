package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, nil)

	publisher.Emit(context.Background(), Event{Action: ActionMigrationStarted, Attempt: 1})

	events := sink.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionMigrationStarted, events[0].Action)
}

func TestPublisherKeepsExplicitTimestamp(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, nil)
	stamp := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	publisher.Emit(context.Background(), Event{Action: ActionMigrationSucceeded, Timestamp: stamp})

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, stamp, events[0].Timestamp)
}

type failingSink struct{}

func (failingSink) Append(context.Context, Event) error {
	return errors.New("sink down")
}

func TestPublisherSwallowsSinkErrors(t *testing.T) {
	publisher := NewPublisher(failingSink{}, nil)

	// Must not panic or propagate; audit loss never fails the caller.
	publisher.Emit(context.Background(), Event{Action: ActionMigrationBypassed})
}

func TestWorkerDrainsInbox(t *testing.T) {
	inbox := make(chan Event, 8)
	sink := NewMemorySink()
	worker := NewWorker(sink, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	channelSink := NewChannelSink(inbox)
	require.NoError(t, channelSink.Append(ctx, Event{Action: ActionMigrationStarted}))
	require.NoError(t, channelSink.Append(ctx, Event{Action: ActionMigrationSucceeded}))

	assert.Eventually(t, func() bool {
		return len(sink.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// flakySink fails the first n appends and forwards the rest.
type flakySink struct {
	failures int
	inner    *MemorySink
}

func (s *flakySink) Append(ctx context.Context, event Event) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	return s.inner.Append(ctx, event)
}

func TestWorkerSurvivesSinkFailures(t *testing.T) {
	inbox := make(chan Event, 8)
	inner := NewMemorySink()
	worker := NewWorker(&flakySink{failures: 1, inner: inner}, inbox, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	inbox <- Event{Action: ActionMigrationStarted}
	inbox <- Event{Action: ActionMigrationSucceeded}

	// The first append fails; the worker must keep consuming and deliver
	// the second event instead of returning the sink error.
	assert.Eventually(t, func() bool {
		events := inner.Events()
		return len(events) == 1 && events[0].Action == ActionMigrationSucceeded
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled, "only cancellation ends the run loop")
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	inbox := make(chan Event, 1)
	sink := NewChannelSink(inbox)

	require.NoError(t, sink.Append(context.Background(), Event{}))
	assert.Error(t, sink.Append(context.Background(), Event{}), "a full inbox drops instead of blocking")
}
