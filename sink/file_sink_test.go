package sink

import (
	"chat-relay/domain"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestFileSink_AppendAndClear(t *testing.T) {
	req := require.New(t)
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "chat.log")
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	fileSink, err := NewFileSink(path)
	req.NoError(err)
	defer fileSink.Close()

	// Given two appended records
	req.NoError(fileSink.Append(ctx, domain.AuditRecord{At: at, Event: domain.AuditServerStarted}))
	req.NoError(fileSink.Append(ctx, domain.AuditRecord{At: at, Event: domain.AuditMessage, Details: "Client1: hi"}))
	req.Equal([]string{
		"[2024-03-09T14:05:07.000Z] === CHAT SERVER STARTED ===",
		"[2024-03-09T14:05:07.000Z] MESSAGE: Client1: hi",
	}, readLines(t, path))

	// When clearing then appending again
	req.NoError(fileSink.Clear(ctx, domain.AuditRecord{At: at, Event: domain.AuditLogCleared}))
	req.NoError(fileSink.Append(ctx, domain.AuditRecord{At: at, Event: domain.AuditCommand, Details: "alice cleared chat log"}))

	// Then the marker is the first line
	req.Equal([]string{
		"[2024-03-09T14:05:07.000Z] === CHAT LOG CLEARED ===",
		"[2024-03-09T14:05:07.000Z] COMMAND: alice cleared chat log",
	}, readLines(t, path))
}

func TestFileSink_KeepsExistingContent(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "chat.log")
	req.NoError(os.WriteFile(path, []byte("previous run\n"), 0o644))

	fileSink, err := NewFileSink(path)
	req.NoError(err)
	defer fileSink.Close()
	req.NoError(fileSink.Append(t.Context(), domain.NewAuditRecord(domain.AuditServerStarted, "")))

	lines := readLines(t, path)
	req.Len(lines, 2)
	req.Equal("previous run", lines[0])
}

func TestFileSink_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "chat.log")
	fileSink, err := NewFileSink(path)
	req.NoError(err)
	defer fileSink.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fileSink.Append(t.Context(), domain.NewAuditRecord(domain.AuditMessage, "Client1: "+strings.Repeat("x", 200)))
		}()
	}
	wg.Wait()

	lines := readLines(t, path)
	req.Len(lines, 50)
	for _, l := range lines {
		_, err := domain.ParseAuditRecord(l)
		req.NoError(err)
	}
}

func TestNewFileSink_UnwritablePath(t *testing.T) {
	_, err := NewFileSink(filepath.Join(t.TempDir(), "missing", "chat.log"))
	require.Error(t, err)
}
