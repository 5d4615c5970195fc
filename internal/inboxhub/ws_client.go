package inboxhub

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"shoptalk/backend/internal/config"
	"shoptalk/backend/internal/models"
)

// WebSocketClient implements the inboxhub.Client interface over a gorilla
// websocket connection. The stream is one-directional: events flow to the
// browser, reads exist only to service pings and detect closure.
type WebSocketClient struct {
	Key  string
	Conn *websocket.Conn
	Hub  *ManagerService
	Send chan models.InboxEvent
}

func (c *WebSocketClient) AccountKey() string { return c.Key }

func (c *WebSocketClient) GetSendChannel() chan<- models.InboxEvent { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(config.MaxEventSize)
	c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		// Inbound frames are discarded; the read loop only keeps the
		// connection's liveness state.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ERROR: Inbox stream read for %s: %v", c.Key, err)
			}
			break
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				log.Printf("ERROR: Inbox stream write for %s: %v", c.Key, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
