package sink

import (
	"chat-relay/domain"
	"context"
	"fmt"
	"os"
	"sync"
)

// FileSink appends audit records to a plain text file, one line per record.
// Appends and truncation share one mutex so lines never interleave.
type FileSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewFileSink opens path for appending, creating it if needed.
// Failing here is fatal at startup.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log %s: %w", path, err)
	}
	return &FileSink{path: path, file: file}, nil
}

func (s *FileSink) Append(_ context.Context, record domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(record)
}

// Clear truncates the file and writes marker as its first line.
func (s *FileSink) Clear(_ context.Context, marker domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate audit log %s: %w", s.path, err)
	}
	return s.write(marker)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *FileSink) write(record domain.AuditRecord) error {
	if _, err := s.file.WriteString(record.Format() + "\n"); err != nil {
		return fmt.Errorf("write audit log %s: %w", s.path, err)
	}
	return nil
}
