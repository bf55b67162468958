//go:generate go run go.uber.org/mock/mockgen -source=audit.go -destination=../mocks/mock_audit_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const auditPrefix = "audit:"

type IAuditRepository interface {
	StoreRecord(record domain.AuditRecord) error
	GetRecords() ([]DiskRecord, error)
	DropAll() error
}

type AuditRepository struct {
	db           *badger.DB
	log          *slog.Logger
	limitRecords *int
}

func NewAuditRepository(db *badger.DB, log *slog.Logger, limitRecords *int) AuditRepository {
	return AuditRepository{db: db, log: log, limitRecords: limitRecords}
}

// DiskRecord is an audit record as stored, with its key.
type DiskRecord struct {
	Key    string
	Record domain.AuditRecord
}

// StoreRecord persists a record under "audit:{timestamp_padded}:{uuid}".
// The 19-digit zero padding keeps keys in chronological order and the UUID
// separates two records written in the same nanosecond.
// The value is the rendered log line.
func (a AuditRepository) StoreRecord(record domain.AuditRecord) error {
	key := fmt.Sprintf("%s%019d:%s", auditPrefix, record.At.UnixNano(), uuid.NewString())
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(record.Format()))
	})
}

// GetRecords returns the stored records, oldest first, stopping at limitRecords.
func (a AuditRepository) GetRecords() ([]DiskRecord, error) {
	var records []DiskRecord
	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(auditPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if a.limitRecords != nil && len(records) == *a.limitRecords {
				a.log.Debug(fmt.Sprintf("Maximum of %d audit records reached", *a.limitRecords))
				break
			}
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(value []byte) error {
				record, err := toAuditRecord(key, value)
				if err != nil {
					return err
				}
				records = append(records, DiskRecord{Key: key, Record: record})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// DropAll removes every audit record.
func (a AuditRepository) DropAll() error {
	return a.db.DropPrefix([]byte(auditPrefix))
}

// toAuditRecord parses the stored line and takes the timestamp from the key,
// which carries nanosecond precision.
func toAuditRecord(key string, value []byte) (domain.AuditRecord, error) {
	record, err := domain.ParseAuditRecord(string(value))
	if err != nil {
		return domain.AuditRecord{}, err
	}
	parts := strings.SplitN(strings.TrimPrefix(key, auditPrefix), ":", 2)
	if nanos, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
		record.At = time.Unix(0, nanos).UTC()
	}
	return record, nil
}
