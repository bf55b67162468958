package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"log/slog"
)

// Auditor mirrors every audit record to the logger before appending it to the sink.
// A failing sink is logged and never reaches the connection that caused the record.
type Auditor struct {
	log  *slog.Logger
	sink contract.AuditSink
}

func NewAuditor(log *slog.Logger, sink contract.AuditSink) *Auditor {
	return &Auditor{log: log, sink: sink}
}

func (a *Auditor) Record(ctx context.Context, event, details string) {
	record := domain.NewAuditRecord(event, details)
	a.log.Info(record.Format())
	if err := a.sink.Append(ctx, record); err != nil {
		a.log.Error("Failed to append audit record", "event", event, "error", err)
	}
}

// Clear truncates the sink, leaving only the cleared marker.
func (a *Auditor) Clear(ctx context.Context) error {
	marker := domain.NewAuditRecord(domain.AuditLogCleared, "")
	if err := a.sink.Clear(ctx, marker); err != nil {
		return err
	}
	a.log.Info(marker.Format())
	return nil
}
