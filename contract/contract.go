//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// AuditSink is the durable append-only record of notable events.
// Each Append is atomic with respect to other Appends and to Clear.
type AuditSink interface {
	Append(ctx context.Context, record domain.AuditRecord) error
	// Clear truncates the log and writes marker as its first line.
	Clear(ctx context.Context, marker domain.AuditRecord) error
}

type IRegistry interface {
	Register(channel domain.Channel, remoteAddress string) domain.Session
	Unregister(id domain.ConnectionID) (domain.Session, bool)
	LookupByHandle(id domain.ConnectionID) (domain.Session, bool)
	LookupByName(name string) (domain.ConnectionID, bool)
	Rename(id domain.ConnectionID, newName string) error
	ListNames() []string
	Sessions() []domain.Session
	Count() int
}

type IRouter interface {
	Broadcast(text string, exclude domain.ConnectionID)
	Unicast(id domain.ConnectionID, text string) error
}

// EventHandler processes connection events one at a time.
type EventHandler interface {
	Handle(ctx context.Context, e event.ConnectionEvent)
}

// Dispatcher queues connection events for the event loop.
type Dispatcher interface {
	Dispatch(ctx context.Context, e event.ConnectionEvent) error
}
