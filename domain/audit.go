package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"time"
)

// Audit events written to the durable log.
const (
	AuditServerStarted      = "=== CHAT SERVER STARTED ==="
	AuditServerShutdown     = "=== CHAT SERVER SHUTDOWN ==="
	AuditLogCleared         = "=== CHAT LOG CLEARED ==="
	AuditClientConnected    = "CLIENT CONNECTED"
	AuditClientDisconnected = "CLIENT DISCONNECTED"
	AuditMessage            = "MESSAGE"
	AuditWhisper            = "WHISPER"
	AuditUsernameChange     = "USERNAME CHANGE"
	AuditKick               = "KICK"
	AuditCommand            = "COMMAND"
	AuditCommandFailed      = "COMMAND FAILED"
	AuditError              = "ERROR"
)

// AuditRecord is one line of the audit log.
type AuditRecord struct {
	At      time.Time
	Event   string
	Details string
}

func NewAuditRecord(event, details string) AuditRecord {
	return AuditRecord{At: time.Now().UTC(), Event: event, Details: details}
}

// Format renders the record as "[<ISO-8601>] <EVENT>: <details>".
// Marker records without details are rendered as "[<ISO-8601>] <EVENT>".
func (r AuditRecord) Format() string {
	ts := r.At.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	if r.Details == "" {
		return fmt.Sprintf("[%s] %s", ts, r.Event)
	}
	return fmt.Sprintf("[%s] %s: %s", ts, r.Event, r.Details)
}

// ParseAuditRecord is the inverse of Format.
func ParseAuditRecord(line string) (AuditRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "[") {
		return AuditRecord{}, fmt.Errorf("%w: %q", errors.ErrMalformedLine, line)
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return AuditRecord{}, fmt.Errorf("%w: %q", errors.ErrMalformedLine, line)
	}
	at, err := time.Parse(time.RFC3339Nano, line[1:end])
	if err != nil {
		return AuditRecord{}, fmt.Errorf("%w: %v", errors.ErrMalformedLine, err)
	}
	rest := line[end+2:]
	record := AuditRecord{At: at.UTC(), Event: rest}
	if idx := strings.Index(rest, ": "); idx >= 0 {
		record.Event = rest[:idx]
		record.Details = rest[idx+2:]
	}
	return record, nil
}
