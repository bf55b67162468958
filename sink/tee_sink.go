package sink

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"errors"
)

// TeeSink forwards every call to all of its sinks.
// A failing sink does not prevent the others from being written.
type TeeSink struct {
	sinks []contract.AuditSink
}

func NewTeeSink(sinks ...contract.AuditSink) TeeSink {
	return TeeSink{sinks: sinks}
}

func (t TeeSink) Append(ctx context.Context, record domain.AuditRecord) error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Append(ctx, record))
	}
	return errors.Join(errs...)
}

func (t TeeSink) Clear(ctx context.Context, marker domain.AuditRecord) error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Clear(ctx, marker))
	}
	return errors.Join(errs...)
}
