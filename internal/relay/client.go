package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundMessage is the wire envelope clients send: a join_room with the
// organization id, or a send_location carrying a GPS sample.
type inboundMessage struct {
	Event          string  `json:"event"`
	OrganizationID string  `json:"organization_id"`
	AgentID        string  `json:"agent_id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Timestamp      string  `json:"timestamp"`
}

// Client is one relay participant: a dashboard viewer or an agent.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string

	// closed is owned by the hub goroutine; once set, the client is out
	// for good and any further join is ignored.
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

// ServeWS upgrades an HTTP request into a relay connection.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Relay: websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(hub, conn)
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Relay: unexpected close: %v", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "join_room":
			if msg.OrganizationID != "" {
				c.hub.Join(c, msg.OrganizationID)
			}
		case "send_location":
			if msg.OrganizationID == "" || msg.AgentID == "" {
				continue
			}
			c.hub.Publish(Sample{
				OrganizationID: msg.OrganizationID,
				AgentID:        msg.AgentID,
				Lat:            msg.Lat,
				Lng:            msg.Lng,
				Timestamp:      msg.Timestamp,
			})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
