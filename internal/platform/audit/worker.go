package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrBufferFull signals that the publisher buffer is saturated and the
// event was dropped rather than blocking the emitting operation.
var ErrBufferFull = errors.New("audit buffer full")

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled. Store failures are
// logged and skipped; audit persistence must never take the process down.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				if w.logger != nil {
					w.logger.WarnContext(ctx, "failed to persist audit event",
						"action", event.Action, "error", err)
				}
			}
		}
	}
}
