package sink

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
)

// BadgerSink mirrors the audit log into Badger so it can be inspected
// without parsing the text file.
type BadgerSink struct {
	repository repositories.IAuditRepository
}

func NewBadgerSink(repository repositories.IAuditRepository) BadgerSink {
	return BadgerSink{repository: repository}
}

func (b BadgerSink) Append(_ context.Context, record domain.AuditRecord) error {
	return b.repository.StoreRecord(record)
}

func (b BadgerSink) Clear(_ context.Context, marker domain.AuditRecord) error {
	if err := b.repository.DropAll(); err != nil {
		return err
	}
	return b.repository.StoreRecord(marker)
}
