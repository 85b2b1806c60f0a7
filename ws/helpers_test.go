package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Publish(view game.View) {
	m.Called(view)
}

func (m *MockMirror) Forget(roomID string) {
	m.Called(roomID)
}

// acceptAll plays any non-empty move and flips the turn.
type acceptAll struct {
	turn  game.Color
	moves int
}

func (e *acceptAll) ApplyMove(notation string) error {
	e.moves++
	e.turn = e.turn.Opposite()
	return nil
}

func (e *acceptAll) TurnOwner() game.Color { return e.turn }
func (e *acceptAll) IsCheckmate() bool     { return false }
func (e *acceptAll) IsDraw() bool          { return false }
func (e *acceptAll) IsStalemate() bool     { return false }
func (e *acceptAll) Position() string      { return "fen" }
func (e *acceptAll) History() string       { return "pgn" }

// newTestManager seats the first joiner of every room as white.
func newTestManager(t *testing.T, mirror store.Mirror, opts ...game.Option) *Manager {
	t.Helper()

	opts = append([]game.Option{game.WithColorPicker(func() game.Color { return game.White })}, opts...)

	return NewManager(testConfig, game.NewRegistry(opts...), mirror, zerolog.Nop())
}

func newTestClient(m *Manager) *Client {
	c := NewClient(nil, m)
	m.addClient(c)
	return c
}

func send(t *testing.T, c *Client, evtType string, payload any) error {
	t.Helper()

	evt, err := NewEvent(evtType, payload)
	require.NoError(t, err)

	return c.manager.routeEvent(context.Background(), evt, c)
}

func mustSend(t *testing.T, c *Client, evtType string, payload any) {
	t.Helper()
	require.NoError(t, send(t, c, evtType, payload))
}

func next(t *testing.T, c *Client, evtType string, out any) {
	t.Helper()

	select {
	case evt := <-c.egress:
		require.Equal(t, evtType, evt.Type, "payload: %s", evt.Payload)
		if out != nil {
			require.NoError(t, json.Unmarshal(evt.Payload, out))
		}
	case <-time.After(time.Second):
		t.Fatalf("no %v event for client %v", evtType, c.ID)
	}
}

func requireNoEvent(t *testing.T, c *Client) {
	t.Helper()

	select {
	case evt := <-c.egress:
		t.Fatalf("unexpected %v event: %s", evt.Type, evt.Payload)
	default:
	}
}

func join(t *testing.T, c *Client, roomID, name string) {
	t.Helper()
	mustSend(t, c, EventJoinRoom, PayloadJoinRoom{RoomID: roomID, Name: name})
}

func move(t *testing.T, c *Client, roomID, notation string) {
	t.Helper()
	mustSend(t, c, EventMakeMove, PayloadMakeMove{RoomID: roomID, Move: notation})
}

// seatPair joins a (white) and b (black) to roomID and drains the join broadcasts.
func seatPair(t *testing.T, m *Manager, roomID string) (*Client, *Client) {
	t.Helper()

	a, b := newTestClient(m), newTestClient(m)

	join(t, a, roomID, "A")
	next(t, a, EventRoomUpdated, nil)

	join(t, b, roomID, "B")
	next(t, a, EventRoomUpdated, nil)
	next(t, b, EventRoomUpdated, nil)

	return a, b
}
