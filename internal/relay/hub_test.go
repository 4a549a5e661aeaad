package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) broadcastMessage {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg broadcastMessage
		assert.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return broadcastMessage{}
	}
}

func assertNothingReceived(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected message: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_BroadcastsToOrganizationRoom(t *testing.T) {
	hub := startHub(t)

	viewer := NewClient(hub, nil)
	hub.Join(viewer, "org-1")

	hub.Publish(Sample{
		OrganizationID: "org-1",
		AgentID:        "agent-7",
		Lat:            28.0,
		Lng:            77.0,
		Timestamp:      "2024-01-01T09:00:00Z",
	})

	msg := receive(t, viewer)
	assert.Equal(t, "update_location", msg.Event)
	assert.Equal(t, "agent-7", msg.AgentID)
	assert.Equal(t, 28.0, msg.Lat)
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := startHub(t)

	orgOne := NewClient(hub, nil)
	orgTwo := NewClient(hub, nil)
	hub.Join(orgOne, "org-1")
	hub.Join(orgTwo, "org-2")

	hub.Publish(Sample{OrganizationID: "org-1", AgentID: "a", Lat: 1, Lng: 2})

	receive(t, orgOne)
	assertNothingReceived(t, orgTwo)
}

func TestHub_LateJoinerMissesEarlierSamples(t *testing.T) {
	hub := startHub(t)

	early := NewClient(hub, nil)
	hub.Join(early, "org-1")

	hub.Publish(Sample{OrganizationID: "org-1", AgentID: "a", Lat: 1, Lng: 2})
	first := receive(t, early)
	assert.Equal(t, 1.0, first.Lat)

	// No buffering: a subscriber joining now never sees the first sample.
	late := NewClient(hub, nil)
	hub.Join(late, "org-1")
	assertNothingReceived(t, late)

	hub.Publish(Sample{OrganizationID: "org-1", AgentID: "a", Lat: 3, Lng: 4})
	assert.Equal(t, 3.0, receive(t, early).Lat)
	assert.Equal(t, 3.0, receive(t, late).Lat)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := startHub(t)

	viewer := NewClient(hub, nil)
	hub.Join(viewer, "org-1")
	hub.Leave(viewer)

	// The send channel is closed once the hub drops the member.
	select {
	case _, ok := <-viewer.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
	assert.Equal(t, 0, hub.Members())
}

func waitForMembers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.Members() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d members, have %d", want, hub.Members())
}

func TestHub_DroppedSlowSubscriberCannotRejoin(t *testing.T) {
	hub := startHub(t)

	slow := NewClient(hub, nil)
	hub.Join(slow, "org-1")

	// Never drain slow.send; overflowing its buffer forces the drop.
	for i := 0; i <= cap(slow.send); i++ {
		hub.Publish(Sample{OrganizationID: "org-1", AgentID: "a", Lat: float64(i), Lng: 0})
	}
	waitForMembers(t, hub, 0)

	// The dropped client's read pump is still alive and re-issues a
	// join; the hub must not resurrect the closed send channel.
	hub.Join(slow, "org-1")

	viewer := NewClient(hub, nil)
	hub.Join(viewer, "org-1")
	hub.Publish(Sample{OrganizationID: "org-1", AgentID: "a", Lat: 99, Lng: 0})

	// A broadcast to a resurrected closed channel would kill the hub
	// goroutine and this receive would time out.
	assert.Equal(t, 99.0, receive(t, viewer).Lat)
	assert.Equal(t, 1, hub.Members())
}

func TestHub_PublishToEmptyRoomIsDropped(t *testing.T) {
	hub := startHub(t)

	hub.Publish(Sample{OrganizationID: "nobody-home", AgentID: "a", Lat: 1, Lng: 2})

	viewer := NewClient(hub, nil)
	hub.Join(viewer, "nobody-home")
	assertNothingReceived(t, viewer)
}
