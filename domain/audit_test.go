package domain

import (
	"chat-relay/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuditRecord_Format(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

	// Given a record with details
	record := AuditRecord{At: at, Event: AuditMessage, Details: "Alice: hello"}
	// Then the event and details are separated by a colon
	req.Equal("[2024-03-09T14:05:07.123Z] MESSAGE: Alice: hello", record.Format())

	// Given a marker record
	marker := AuditRecord{At: at, Event: AuditServerStarted}
	// Then no trailing colon is written
	req.Equal("[2024-03-09T14:05:07.123Z] === CHAT SERVER STARTED ===", marker.Format())
}

func TestAuditRecord_FormatConvertsToUTC(t *testing.T) {
	req := require.New(t)
	paris := time.FixedZone("CET", 3600)
	at := time.Date(2024, 3, 9, 15, 5, 7, 0, paris)

	record := AuditRecord{At: at, Event: AuditKick, Details: "Alice kicked Bob"}
	req.Equal("[2024-03-09T14:05:07.000Z] KICK: Alice kicked Bob", record.Format())
}

func TestParseAuditRecord(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

	// Given formatted records, details containing ": " included
	records := []AuditRecord{
		{At: at, Event: AuditMessage, Details: "Alice: hello: world"},
		{At: at, Event: AuditCommandFailed, Details: "Bob attempted to kick Alice with wrong password"},
		{At: at, Event: AuditLogCleared},
	}

	for _, record := range records {
		// When parsing the rendered line back
		parsed, err := ParseAuditRecord(record.Format() + "\n")

		// Then the record is recovered
		req.NoError(err)
		req.Equal(record, parsed)
	}
}

func TestParseAuditRecord_Malformed(t *testing.T) {
	req := require.New(t)

	for _, line := range []string{
		"",
		"no brackets",
		"[2024-03-09T14:05:07.123Z]missing space",
		"[yesterday] MESSAGE: hi",
	} {
		_, err := ParseAuditRecord(line)
		req.ErrorIs(err, errors.ErrMalformedLine, "line=%q", line)
	}
}

func TestClientList(t *testing.T) {
	req := require.New(t)

	req.Equal("Connected users (2): Alice, Client2", ClientList([]string{"Alice", "Client2"}))
	req.Equal("Connected users (0): ", ClientList(nil))
}
