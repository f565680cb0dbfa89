package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ChannelSink hands events to a Worker so slow sinks (a broker, a remote
// store) stay off the request path. A full inbox drops the event rather than
// blocking the request.
type ChannelSink struct {
	inbox chan<- Event
}

func NewChannelSink(inbox chan<- Event) *ChannelSink {
	return &ChannelSink{inbox: inbox}
}

func (s *ChannelSink) Append(_ context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	default:
		return errors.New("audit inbox full")
	}
}

// Worker consumes audit events from a channel and appends them to the real
// sink. It keeps background processing testable without wiring queue
// implementations into callers.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes until the context is cancelled. Append failures are logged
// and the loop keeps going: a flaky sink loses that one event, it does not
// stop audit processing or the process hosting it.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "audit append failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
