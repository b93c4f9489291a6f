package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestClient builds a client whose pumps never run, so messages can be
// read straight off the send channel.
func newTestClient(id string) *Client {
	return &Client{
		ID:   id,
		send: make(chan []byte, sendBufferSize),
	}
}

func receiveMessage(t *testing.T, client *Client) Message {
	t.Helper()

	select {
	case data := <-client.send:
		var message Message
		require.NoError(t, json.Unmarshal(data, &message))
		return message
	default:
		t.Fatalf("client %s has no queued message", client.ID)
		return Message{}
	}
}

func TestHub_Publish(t *testing.T) {
	t.Run("Delivers to every subscriber of the room", func(t *testing.T) {
		// Given: two subscribers of r1 and a bystander in r2
		hub := newTestHub()

		alice := newTestClient("conn-1")
		bob := newTestClient("conn-2")
		carol := newTestClient("conn-3")

		for _, client := range []*Client{alice, bob, carol} {
			hub.Register(client)
		}

		hub.Join("r1", alice.ID)
		hub.Join("r1", bob.ID)
		hub.Join("r2", carol.ID)

		// When: an event is published to r1
		hub.Publish("r1", "room-updated", ErrorPayload{Message: "snapshot"})

		// Then: both subscribers get it, the bystander does not
		for _, client := range []*Client{alice, bob} {
			message := receiveMessage(t, client)
			assert.Equal(t, "room-updated", message.Action)
		}

		assert.Empty(t, carol.send)
	})

	t.Run("Preserves per-room delivery order", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		hub.Register(alice)
		hub.Join("r1", alice.ID)

		hub.Publish("r1", "first", struct{}{})
		hub.Publish("r1", "second", struct{}{})

		assert.Equal(t, "first", receiveMessage(t, alice).Action)
		assert.Equal(t, "second", receiveMessage(t, alice).Action)
	})

	t.Run("Skips a connection after Leave", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		bob := newTestClient("conn-2")
		hub.Register(alice)
		hub.Register(bob)
		hub.Join("r1", alice.ID)
		hub.Join("r1", bob.ID)

		hub.Leave("r1", alice.ID)
		hub.Publish("r1", "room-updated", struct{}{})

		assert.Empty(t, alice.send)
		assert.Equal(t, "room-updated", receiveMessage(t, bob).Action)
	})

	t.Run("Is a no-op after DropRoom", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		hub.Register(alice)
		hub.Join("r1", alice.ID)

		hub.DropRoom("r1")
		hub.Publish("r1", "room-closed", struct{}{})

		assert.Empty(t, alice.send)
	})
}

func TestHub_Notify(t *testing.T) {
	t.Run("Delivers to exactly one connection", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		bob := newTestClient("conn-2")
		hub.Register(alice)
		hub.Register(bob)

		err := hub.Notify(alice.ID, "room-error", ErrorPayload{Message: "Room full"})

		require.NoError(t, err)
		message := receiveMessage(t, alice)
		assert.Equal(t, "room-error", message.Action)
		assert.Empty(t, bob.send)

		var payload ErrorPayload
		require.NoError(t, json.Unmarshal(message.Payload, &payload))
		assert.Equal(t, "Room full", payload.Message)
	})

	t.Run("Fails for an unknown connection", func(t *testing.T) {
		hub := newTestHub()

		err := hub.Notify("conn-404", "room-error", struct{}{})

		require.ErrorIs(t, err, ErrConnectionNotFound)
	})
}

func TestHub_Unregister(t *testing.T) {
	t.Run("Closes the send channel and clears subscriptions", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		hub.Register(alice)
		hub.Join("r1", alice.ID)

		hub.Unregister(alice)

		_, open := <-alice.send
		assert.False(t, open)

		// publishing to the room no longer reaches anyone
		hub.Publish("r1", "room-updated", struct{}{})
		assert.Error(t, hub.Notify(alice.ID, "room-updated", struct{}{}))
	})

	t.Run("Tolerates a double unregister", func(t *testing.T) {
		hub := newTestHub()

		alice := newTestClient("conn-1")
		hub.Register(alice)

		hub.Unregister(alice)
		hub.Unregister(alice)
	})
}
