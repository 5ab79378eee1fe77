package pubsub

import (
	"github.com/astroworld-labs/murph/internal/events"
)

// Hub centralizes the application's event brokers.
type Hub struct {
	Session *Broker[events.SessionEvent]
	Auth    *Broker[events.AuthEvent]
}

// NewHub creates a hub with all brokers initialized.
func NewHub() *Hub {
	return &Hub{
		Session: NewBroker[events.SessionEvent]("session"),
		Auth:    NewBroker[events.AuthEvent]("auth"),
	}
}

// Shutdown stops every broker in the hub.
func (h *Hub) Shutdown() {
	if h == nil {
		return
	}
	h.Session.Shutdown()
	h.Auth.Shutdown()
}
