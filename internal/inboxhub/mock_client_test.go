package inboxhub_test

import (
	"sync"

	"shoptalk/backend/internal/models"
)

// mockClient is a hub client backed by a plain channel, used in place of a
// real websocket connection.
type mockClient struct {
	key  string
	send chan models.InboxEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(key string, buffer int) *mockClient {
	return &mockClient{
		key:  key,
		send: make(chan models.InboxEvent, buffer),
	}
}

func (c *mockClient) AccountKey() string { return c.key }

func (c *mockClient) GetSendChannel() chan<- models.InboxEvent { return c.send }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *mockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
