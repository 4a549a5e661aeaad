package relay

import (
	"encoding/json"
	"log"
	"sync"
)

// Sample is one GPS position report from an agent.
type Sample struct {
	OrganizationID string  `json:"organization_id"`
	AgentID        string  `json:"agent_id"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	Timestamp      string  `json:"timestamp"`
}

// broadcastMessage is what subscribers of an organization room receive.
// Samples are best-effort telemetry: no history, no acknowledgment, and
// a late joiner only sees samples published after joining.
type broadcastMessage struct {
	Event     string  `json:"event"`
	AgentID   string  `json:"agent_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp string  `json:"timestamp"`
}

type joinRequest struct {
	client *Client
	room   string
}

// Hub groups relay participants into rooms keyed by organization id and
// fans published samples out to every member of the sample's room.
type Hub struct {
	rooms map[string]map[*Client]bool

	join    chan joinRequest
	leave   chan *Client
	publish chan Sample
	stop    chan struct{}

	mu      sync.RWMutex
	members int
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		join:    make(chan joinRequest),
		leave:   make(chan *Client),
		publish: make(chan Sample, 256),
		stop:    make(chan struct{}),
	}
}

// Run is the hub's main loop; one goroutine owns all room state.
func (h *Hub) Run() {
	for {
		select {
		case req := <-h.join:
			h.addToRoom(req.client, req.room)

		case client := <-h.leave:
			h.removeClient(client)

		case sample := <-h.publish:
			h.broadcast(sample)

		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Join registers a participant in an organization room.
func (h *Hub) Join(client *Client, organizationId string) {
	h.join <- joinRequest{client: client, room: organizationId}
}

// Leave removes a participant from its room and closes its send channel.
func (h *Hub) Leave(client *Client) {
	h.leave <- client
}

// Publish fans a sample out to the members of its organization room.
func (h *Hub) Publish(sample Sample) {
	h.publish <- sample
}

func (h *Hub) Stop() {
	close(h.stop)
}

// Members returns the current number of joined participants.
func (h *Hub) Members() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.members
}

func (h *Hub) addToRoom(client *Client, room string) {
	// A drop is final. The read pump of a dropped client may still be
	// alive and re-issue a join; re-registering its closed send channel
	// would crash the next broadcast.
	if client.closed {
		return
	}
	if client.room != "" {
		h.dropFromRoom(client)
	}
	client.room = room
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	h.recount()
	log.Printf("Relay: client joined room %s (%d members total)", room, h.Members())
}

func (h *Hub) removeClient(client *Client) {
	if members, ok := h.rooms[client.room]; ok && members[client] {
		h.dropFromRoom(client)
		h.recount()
		h.closeClient(client)
	}
}

func (h *Hub) dropFromRoom(client *Client) {
	members := h.rooms[client.room]
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, client.room)
	}
}

func (h *Hub) broadcast(sample Sample) {
	members := h.rooms[sample.OrganizationID]
	if len(members) == 0 {
		return
	}

	data, err := json.Marshal(broadcastMessage{
		Event:     "update_location",
		AgentID:   sample.AgentID,
		Lat:       sample.Lat,
		Lng:       sample.Lng,
		Timestamp: sample.Timestamp,
	})
	if err != nil {
		log.Printf("Relay: failed to marshal sample: %v", err)
		return
	}

	for client := range members {
		select {
		case client.send <- data:
		default:
			// Slow subscriber; drop it rather than buffer.
			h.dropFromRoom(client)
			h.closeClient(client)
		}
	}
	h.recount()
}

func (h *Hub) closeAll() {
	for room, members := range h.rooms {
		for client := range members {
			h.closeClient(client)
		}
		delete(h.rooms, room)
	}
	h.recount()
}

// closeClient closes the send channel exactly once. Only the Run
// goroutine calls this, so the flag needs no lock.
func (h *Hub) closeClient(client *Client) {
	if client.closed {
		return
	}
	client.closed = true
	close(client.send)
}

func (h *Hub) recount() {
	total := 0
	for _, members := range h.rooms {
		total += len(members)
	}
	h.mu.Lock()
	h.members = total
	h.mu.Unlock()
}
