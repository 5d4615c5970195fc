package inboxhub

import (
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"shoptalk/backend/internal/models"
)

// EventSource is the slice of the storage layer the hub consumes: a
// subscription to the inbox event channel.
type EventSource interface {
	SubscribeInboxEvents() *redis.PubSub
}

// AccountKey builds the routing key the hub indexes clients by.
func AccountKey(ref models.AccountRef) string {
	return fmt.Sprintf("%s:%d", ref.Kind, ref.RefID)
}

// ManagerService owns the set of connected clients and the event routing
// loop. All map access happens on the Run goroutine; other goroutines talk to
// it through the channels only.
type ManagerService struct {
	Clients map[string]Client

	EventCh      chan models.InboxEvent
	RegisterCh   chan Client
	UnregisterCh chan Client

	Source EventSource
}

func NewManagerService(source EventSource) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		EventCh:      make(chan models.InboxEvent),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Source:       source,
	}
}

// Run is the hub's main dispatcher loop.
func (m *ManagerService) Run() {
	log.Println("Inbox hub started.")
	for {
		select {
		case client := <-m.RegisterCh:
			if previous, ok := m.Clients[client.AccountKey()]; ok {
				previous.Close()
			}
			m.Clients[client.AccountKey()] = client
			log.Printf("INFO: Inbox client registered for %s", client.AccountKey())

		case client := <-m.UnregisterCh:
			if current, ok := m.Clients[client.AccountKey()]; ok && current == client {
				delete(m.Clients, client.AccountKey())
				client.Close()
				log.Printf("INFO: Inbox client unregistered for %s", client.AccountKey())
			}

		case event := <-m.EventCh:
			m.dispatch(event)
		}
	}
}

// dispatch delivers an event to every connected member of its audience. A
// client with a full send buffer is skipped; the event is a refetch hint, not
// a delivery guarantee.
func (m *ManagerService) dispatch(event models.InboxEvent) {
	for _, ref := range event.Audience {
		client, ok := m.Clients[AccountKey(ref)]
		if !ok {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			log.Printf("WARNING: Dropping inbox event %s for slow client %s", event.EventID, AccountKey(ref))
		}
	}
}
