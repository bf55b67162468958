// Package domain contains core concepts of the chat relay.
// This file defines Session entities and the Channel they are bound to.
// No runtime, network, or UI logic should be added here.
//
//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_channel.go -package=mocks
package domain

import (
	"fmt"
	"time"
)

// ConnectionID identifies a live connection. It is the registry's handle
// on a Channel and is assigned by the transport.
type ConnectionID string

// NoConnection excludes nobody when used as a broadcast exclusion.
const NoConnection ConnectionID = ""

// Channel is a duplex text channel to one participant.
// The registry associates data with it but never owns its lifecycle.
type Channel interface {
	ID() ConnectionID
	Send(text string) error
	Close(reason string) error
	IsOpen() bool
}

// Session binds a live connection to its display name and metadata.
type Session struct {
	ID            ConnectionID
	Channel       Channel
	DisplayName   string
	ConnectedAt   time.Time
	RemoteAddress string
}

// GeneratedName returns the server assigned identifier for the n-th connection.
func GeneratedName(n uint64) string {
	return fmt.Sprintf("Client%d", n)
}
