package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"log/slog"

	"github.com/samber/lo"
)

// Router fans messages out to the sessions of the registry.
// Delivery is best-effort: a failing recipient never blocks the others.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
}

func NewRouter(log *slog.Logger, registry contract.IRegistry) *Router {
	return &Router{log: log, registry: registry}
}

// Broadcast sends text to every registered session except exclude.
// Channels that are no longer open are skipped silently.
func (r *Router) Broadcast(text string, exclude domain.ConnectionID) {
	recipients := lo.Filter(r.registry.Sessions(), func(s domain.Session, _ int) bool {
		return s.ID != exclude && s.Channel.IsOpen()
	})
	for _, s := range recipients {
		if err := s.Channel.Send(text); err != nil {
			r.log.Debug("Broadcast delivery failed", "connection", s.ID, "user", s.DisplayName, "error", err)
		}
	}
}

// Unicast sends text to exactly one registered session.
func (r *Router) Unicast(id domain.ConnectionID, text string) error {
	session, ok := r.registry.LookupByHandle(id)
	if !ok {
		return errors.ErrSessionNotFound
	}
	if !session.Channel.IsOpen() {
		return errors.ErrChannelClosed
	}
	return session.Channel.Send(text)
}
