package runtime_test

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/runtime"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	adminSecret = "s3cret"
	kickGrace   = 10 * time.Millisecond
)

// fakeChannel records every frame it receives.
type fakeChannel struct {
	mu       sync.Mutex
	id       domain.ConnectionID
	frames   []string
	closed   bool
	reason   string
	failSend bool
}

func newFakeChannel(id string) *fakeChannel {
	return &fakeChannel{id: domain.ConnectionID(id)}
}

func (c *fakeChannel) ID() domain.ConnectionID { return c.id }

func (c *fakeChannel) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.ErrChannelClosed
	}
	if c.failSend {
		return errors.ErrBackpressure
	}
	c.frames = append(c.frames, text)
	return nil
}

func (c *fakeChannel) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.reason = reason
	}
	return nil
}

func (c *fakeChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *fakeChannel) Frames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.frames...)
}

func (c *fakeChannel) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		return ""
	}
	return c.frames[len(c.frames)-1]
}

func (c *fakeChannel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func (c *fakeChannel) CloseReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// recordingSink keeps audit records in memory, timestamps dropped.
type recordingSink struct {
	mu       sync.Mutex
	records  []string
	clearErr error
}

func (s *recordingSink) Append(_ context.Context, record domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, line(record))
	return nil
}

func (s *recordingSink) Clear(_ context.Context, marker domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.records = []string{line(marker)}
	return nil
}

func (s *recordingSink) Records() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.records...)
}

func line(record domain.AuditRecord) string {
	if record.Details == "" {
		return record.Event
	}
	return fmt.Sprintf("%s: %s", record.Event, record.Details)
}

// relay wires a real registry, router and interpreter around in-memory channels.
type relay struct {
	log         *slog.Logger
	registry    *runtime.Registry
	router      *runtime.Router
	auditor     *runtime.Auditor
	interpreter *runtime.Interpreter
	sink        *recordingSink
	next        int
}

func newRelay(t *testing.T) *relay {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry()
	router := runtime.NewRouter(log, registry)
	sink := &recordingSink{}
	auditor := runtime.NewAuditor(log, sink)
	interpreter := runtime.NewInterpreter(log, registry, router, auditor,
		auth.NewAuthorizer(adminSecret, ""), kickGrace)
	return &relay{
		log:         log,
		registry:    registry,
		router:      router,
		auditor:     auditor,
		interpreter: interpreter,
		sink:        sink,
	}
}

// join registers a new connection and renames it when name is not empty.
func (r *relay) join(t *testing.T, name string) (domain.ConnectionID, *fakeChannel) {
	t.Helper()
	r.next++
	channel := newFakeChannel(fmt.Sprintf("conn-%d", r.next))
	session := r.registry.Register(channel, "127.0.0.1")
	if name != "" {
		require.NoError(t, r.registry.Rename(session.ID, name))
	}
	return session.ID, channel
}

// exec runs a command line on behalf of the connection, as the event loop would.
func (r *relay) exec(t *testing.T, id domain.ConnectionID, line string) {
	t.Helper()
	session, ok := r.registry.LookupByHandle(id)
	require.True(t, ok)
	r.interpreter.Execute(context.Background(), session, line)
}
