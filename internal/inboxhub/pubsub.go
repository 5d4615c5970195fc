package inboxhub

import (
	"encoding/json"
	"log"

	"shoptalk/backend/internal/models"
)

// StartPubSubListener starts the goroutine that bridges Redis Pub/Sub into
// the hub's event channel. Events published by any backend instance reach the
// clients connected to this one.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Source.SubscribeInboxEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.InboxEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Failed to decode inbox event payload: %v", err)
				continue
			}
			m.EventCh <- event
		}
	}()
}
