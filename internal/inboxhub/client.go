// Package inboxhub fans inbox-changed events out to connected clients. The
// hub subscribes to the Redis event channel and routes each event to the
// websocket connections of the accounts it concerns, so those clients know to
// refetch their first inbox page.
package inboxhub

import "shoptalk/backend/internal/models"

// Client is the interface for one realtime inbox subscription. It abstracts
// the underlying connection so the hub can manage transports uniformly.
type Client interface {
	// AccountKey returns the "kind:refID" routing key of the subscribed account.
	AccountKey() string

	// GetSendChannel returns the channel the hub delivers events on. It is a
	// send-only channel from the hub's point of view.
	GetSendChannel() chan<- models.InboxEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and channels.
	Close()
}
