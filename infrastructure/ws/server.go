package ws

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to WebSocket connections and feeds their
// lifecycle to the dispatcher: one Connected, any number of Inbound,
// exactly one Disconnected.
type Server struct {
	log            *slog.Logger
	dispatcher     contract.Dispatcher
	upgrader       websocket.Upgrader
	bufferSize     int
	maxMessageSize int64
}

func NewServer(log *slog.Logger, dispatcher contract.Dispatcher, bufferSize, maxMessageSize int) *Server {
	return &Server{
		log:        log,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Line clients send no Origin; browsers are allowed from anywhere.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bufferSize:     bufferSize,
		maxMessageSize: int64(maxMessageSize),
	}
}

// ServeHTTP blocks for the lifetime of the connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Failed to upgrade WebSocket", "remote", r.RemoteAddr, "error", err)
		return
	}

	conn := NewConn(domain.ConnectionID(uuid.NewString()), socket, s.log, s.bufferSize)
	ctx := r.Context()

	connected := event.Connected{Channel: conn, RemoteAddress: remoteHost(r), At: time.Now().UTC()}
	if err := s.dispatcher.Dispatch(ctx, connected); err != nil {
		s.log.Warn("Connection not dispatched", "remote", r.RemoteAddr, "error", err)
		_ = socket.Close()
		return
	}

	go conn.WritePump()
	conn.ReadPump(ctx, s.dispatcher, s.maxMessageSize)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
