package event

import (
	"chat-relay/domain"
	"time"
)

// ConnectionEvent is anything that happens to one connection.
// Events are processed one at a time by the event loop.
type ConnectionEvent interface {
	ConnectionID() domain.ConnectionID
}

// Connected is emitted once the transport has accepted a connection.
type Connected struct {
	Channel       domain.Channel
	RemoteAddress string
	At            time.Time
}

func (c Connected) ConnectionID() domain.ConnectionID {
	return c.Channel.ID()
}

// Inbound carries one text frame received from a connection.
type Inbound struct {
	ID   domain.ConnectionID
	Text string
	At   time.Time
}

func (i Inbound) ConnectionID() domain.ConnectionID {
	return i.ID
}

// Disconnected is emitted once per connection when it reaches Closed.
// Cause is nil for a normal close.
type Disconnected struct {
	ID    domain.ConnectionID
	Cause error
	At    time.Time
}

func (d Disconnected) ConnectionID() domain.ConnectionID {
	return d.ID
}
