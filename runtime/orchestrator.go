// Package runtime holds the session registry, the router, the command interpreter
// and the orchestrator tying them to the connection lifecycle.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/moderation"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Orchestrator owns the event queue and runs the connection state machine
// Connecting -> Open -> Closed. Events are consumed by a single EventLoop,
// so each one is fully processed before the next mutates shared state.
type Orchestrator struct {
	mu          sync.Mutex
	log         *slog.Logger
	supervisor  contract.ISupervisor
	registry    contract.IRegistry
	router      contract.IRouter
	interpreter *Interpreter
	auditor     *Auditor
	moderator   *moderation.Moderator
	events      chan event.ConnectionEvent
	workers     []contract.Worker
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, router contract.IRouter,
	interpreter *Interpreter, auditor *Auditor, bufferSize int) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		router:      router,
		interpreter: interpreter,
		auditor:     auditor,
		events:      make(chan event.ConnectionEvent, bufferSize),
	}
}

// WithModerator enables censoring of plain chat lines.
func (o *Orchestrator) WithModerator(m *moderation.Moderator) *Orchestrator {
	o.moderator = m
	return o
}

// Add registers extra workers supervised alongside the event loop.
func (o *Orchestrator) Add(w ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.workers = append(o.workers, w...)
}

// Start registers the event loop and every extra worker to the supervisor
// and runs them in the background until ctx is canceled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	o.supervisor.Add(workers.NewEventLoop(o.log, o.events, o))
	o.supervisor.Add(o.workers...)
	o.mu.Unlock()

	o.auditor.Record(ctx, domain.AuditServerStarted, "")
	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
	return nil
}

// Queue exposes the event queue for capacity sampling.
func (o *Orchestrator) Queue() workers.NamedChannel {
	return workers.NamedChannel{Name: "connection_events", Channel: o.events}
}

// Dispatch queues an event for the event loop.
// It blocks while the queue is full, which throttles the reading connection.
func (o *Orchestrator) Dispatch(ctx context.Context, e event.ConnectionEvent) error {
	select {
	case o.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle applies one connection event. It is only called by the event loop.
func (o *Orchestrator) Handle(ctx context.Context, e event.ConnectionEvent) {
	switch evt := e.(type) {
	case event.Connected:
		o.onConnected(ctx, evt)
	case event.Inbound:
		o.onInbound(ctx, evt)
	case event.Disconnected:
		o.onDisconnected(ctx, evt)
	default:
		o.log.Warn(fmt.Sprintf("Not implemented event : %T", evt))
	}
}

func (o *Orchestrator) onConnected(ctx context.Context, evt event.Connected) {
	session := o.registry.Register(evt.Channel, evt.RemoteAddress)

	if err := o.router.Unicast(session.ID, domain.WelcomeNotice(session.DisplayName)); err != nil {
		o.log.Debug("Welcome not delivered", "user", session.DisplayName, "error", err)
	}
	o.router.Broadcast(domain.JoinNotice(session.DisplayName), session.ID)
	o.auditor.Record(ctx, domain.AuditClientConnected,
		fmt.Sprintf("%s from %s", session.DisplayName, session.RemoteAddress))
	o.log.Debug("Client connected", "user", session.DisplayName, "total", o.registry.Count())
}

func (o *Orchestrator) onInbound(ctx context.Context, evt event.Inbound) {
	text := strings.TrimSpace(evt.Text)
	if text == "" {
		return
	}

	session, ok := o.registry.LookupByHandle(evt.ID)
	if !ok {
		o.log.Debug("Line from unregistered connection dropped", "connection", evt.ID)
		return
	}

	if strings.HasPrefix(text, "/") {
		o.interpreter.Execute(ctx, session, text)
		return
	}

	if o.moderator != nil {
		text, _ = o.moderator.Censor(text)
	}
	line := domain.ChatLine(session.DisplayName, text)
	o.router.Broadcast(line, session.ID)
	o.auditor.Record(ctx, domain.AuditMessage, line)
}

func (o *Orchestrator) onDisconnected(ctx context.Context, evt event.Disconnected) {
	session, ok := o.registry.Unregister(evt.ID)
	if !ok {
		return
	}

	if evt.Cause != nil {
		o.auditor.Record(ctx, domain.AuditError, fmt.Sprintf("%s - %v", session.DisplayName, evt.Cause))
	}
	o.router.Broadcast(domain.LeaveNotice(session.DisplayName), domain.NoConnection)
	o.auditor.Record(ctx, domain.AuditClientDisconnected, session.DisplayName)
	o.log.Debug("Client disconnected", "user", session.DisplayName, "remaining", o.registry.Count())
}

// Shutdown says goodbye to every open session, closes their channels
// and stops the supervised workers.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	o.log.Info("Requesting orchestrator shutdown")

	for _, session := range o.registry.Sessions() {
		if !session.Channel.IsOpen() {
			continue
		}
		if err := session.Channel.Send(domain.ShutdownNotice); err != nil {
			o.log.Debug("Goodbye not delivered", "user", session.DisplayName, "error", err)
		}
		if err := session.Channel.Close(domain.ShutdownReason); err != nil {
			o.log.Debug("Closing connection failed", "user", session.DisplayName, "error", err)
		}
	}
	o.auditor.Record(ctx, domain.AuditServerShutdown, "")
	o.supervisor.Stop()
}
