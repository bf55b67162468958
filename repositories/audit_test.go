package repositories

import (
	"chat-relay/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Store_Multiple_Records(t *testing.T) {
	req := require.New(t)
	repository := NewAuditRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC()
	records := []domain.AuditRecord{
		{At: at, Event: domain.AuditServerStarted},
		{At: at.Add(time.Millisecond), Event: domain.AuditClientConnected, Details: "Client1 from 127.0.0.1"},
		{At: at.Add(2 * time.Millisecond), Event: domain.AuditMessage, Details: "Client1: hi: there"},
	}
	for _, r := range records {
		req.NoError(repository.StoreRecord(r))
	}

	fetched, err := repository.GetRecords()
	req.NoError(err)
	req.Len(fetched, len(records))
	for i, diskRecord := range fetched {
		// Then records come back in chronological order with full precision
		req.Equal(records[i], diskRecord.Record)
		req.Contains(diskRecord.Key, auditPrefix)
	}
}

func Test_Store_Records_In_Same_Nanosecond(t *testing.T) {
	req := require.New(t)
	repository := NewAuditRepository(openTestDB(t), slog.Default(), nil)

	at := time.Now().UTC()
	req.NoError(repository.StoreRecord(domain.AuditRecord{At: at, Event: domain.AuditKick, Details: "a kicked b"}))
	req.NoError(repository.StoreRecord(domain.AuditRecord{At: at, Event: domain.AuditKick, Details: "a kicked c"}))

	fetched, err := repository.GetRecords()
	req.NoError(err)
	req.Len(fetched, 2)
}

func Test_Get_Records_With_Limit(t *testing.T) {
	req := require.New(t)
	limit := 2
	repository := NewAuditRepository(openTestDB(t), slog.Default(), &limit)

	at := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.StoreRecord(domain.AuditRecord{
			At:      at.Add(time.Duration(i) * time.Second),
			Event:   domain.AuditMessage,
			Details: "spam",
		}))
	}

	fetched, err := repository.GetRecords()
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal(at, fetched[0].Record.At)
}

func Test_Drop_All(t *testing.T) {
	req := require.New(t)
	repository := NewAuditRepository(openTestDB(t), slog.Default(), nil)
	req.NoError(repository.StoreRecord(domain.NewAuditRecord(domain.AuditMessage, "Client1: hi")))

	req.NoError(repository.DropAll())

	fetched, err := repository.GetRecords()
	req.NoError(err)
	req.Empty(fetched)
}
