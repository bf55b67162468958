package ws

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	stdErrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Conn adapts a WebSocket connection to domain.Channel.
// Send never blocks: frames go to a buffered outbox drained by the write pump.
type Conn struct {
	id          domain.ConnectionID
	ws          *websocket.Conn
	log         *slog.Logger
	outbox      chan string
	done        chan struct{}
	open        atomic.Bool
	closeOnce   sync.Once
	closeReason string
}

func NewConn(id domain.ConnectionID, ws *websocket.Conn, log *slog.Logger, bufferSize int) *Conn {
	c := &Conn{
		id:     id,
		ws:     ws,
		log:    log,
		outbox: make(chan string, bufferSize),
		done:   make(chan struct{}),
	}
	c.open.Store(true)
	return c
}

func (c *Conn) ID() domain.ConnectionID { return c.id }

func (c *Conn) IsOpen() bool { return c.open.Load() }

func (c *Conn) Send(text string) error {
	if !c.open.Load() {
		return errors.ErrChannelClosed
	}
	select {
	case c.outbox <- text:
		return nil
	case <-c.done:
		return errors.ErrChannelClosed
	default:
		return errors.ErrBackpressure
	}
}

// Close marks the channel closed. The write pump flushes what is already
// queued, sends a close frame carrying reason and releases the socket.
func (c *Conn) Close(reason string) error {
	c.closeOnce.Do(func() {
		c.closeReason = reason
		c.open.Store(false)
		close(c.done)
	})
	return nil
}

// WritePump pumps queued frames to the socket and keeps the peer alive with pings.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case text := <-c.outbox:
			if err := c.write(websocket.TextMessage, []byte(text)); err != nil {
				c.log.Debug("Failed to write frame", "connection", c.id, "error", err)
				_ = c.Close("")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.Close("")
				return
			}
		case <-c.done:
			c.flush()
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.closeReason)
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// ReadPump turns frames into Inbound events until the socket fails or is closed,
// then dispatches exactly one Disconnected event.
func (c *Conn) ReadPump(ctx context.Context, dispatcher contract.Dispatcher, maxMessageSize int64) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	var cause error
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			cause = c.readFailure(err)
			break
		}
		if kind == websocket.BinaryMessage && !utf8.Valid(data) {
			cause = errors.ErrMalformedFrame
			break
		}
		inbound := event.Inbound{ID: c.id, Text: string(data), At: time.Now().UTC()}
		if err := dispatcher.Dispatch(ctx, inbound); err != nil {
			c.log.Debug("Inbound frame not dispatched", "connection", c.id, "error", err)
			break
		}
	}

	reason := ""
	if stdErrors.Is(cause, errors.ErrMalformedFrame) {
		reason = domain.MalformedReason
	}
	_ = c.Close(reason)

	disconnected := event.Disconnected{ID: c.id, Cause: cause, At: time.Now().UTC()}
	if err := dispatcher.Dispatch(ctx, disconnected); err != nil {
		c.log.Warn("Disconnect not dispatched", "connection", c.id, "error", err)
	}
}

// readFailure returns nil for closes that are part of the normal lifecycle:
// a local Close, or a peer closing normally or going away.
func (c *Conn) readFailure(err error) error {
	if !c.IsOpen() {
		return nil
	}
	var closeErr *websocket.CloseError
	if stdErrors.As(err, &closeErr) &&
		!websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure,
			websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return nil
	}
	return err
}

func (c *Conn) flush() {
	for {
		select {
		case text := <-c.outbox:
			if err := c.write(websocket.TextMessage, []byte(text)); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Conn) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, data)
}
