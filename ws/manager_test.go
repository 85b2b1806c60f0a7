package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/store"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, m *Manager) string {
	t.Helper()

	router := gin.New()
	router.GET("/ws", m.ServeWS)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func write(t *testing.T, conn *websocket.Conn, evtType string, payload any) {
	t.Helper()

	evt, err := NewEvent(evtType, payload)
	require.NoError(t, err)
	evt.TraceID = "trace-" + evtType

	require.NoError(t, conn.WriteJSON(evt))
}

func read(t *testing.T, conn *websocket.Conn, evtType string, out any) Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	require.Equal(t, evtType, evt.Type, "payload: %s", evt.Payload)

	if out != nil {
		require.NoError(t, json.Unmarshal(evt.Payload, out))
	}

	return evt
}

func TestServeWS(t *testing.T) {
	m := newTestManager(t, store.NopMirror{})
	url := newTestServer(t, m)

	white, black := dial(t, url), dial(t, url)

	write(t, white, EventJoinRoom, PayloadJoinRoom{RoomID: "R1", Name: "A"})
	read(t, white, EventRoomUpdated, nil)

	write(t, black, EventJoinRoom, PayloadJoinRoom{RoomID: "R1", Name: "B"})

	var view game.View
	read(t, white, EventRoomUpdated, &view)
	read(t, black, EventRoomUpdated, nil)
	require.Equal(t, game.StatusPlaying, view.Room.Status)
	require.Len(t, view.Players, 2)
	require.Equal(t, 2, m.ClientCount())

	moves := []struct {
		conn *websocket.Conn
		move string
	}{
		{white, "f3"}, {black, "e5"}, {white, "g4"}, {black, "Qh4#"},
	}

	var out game.MoveOutcome
	for _, mv := range moves {
		write(t, mv.conn, EventMakeMove, PayloadMakeMove{RoomID: "R1", Move: mv.move})
		read(t, white, EventMoveMade, &out)
		read(t, black, EventMoveMade, nil)
	}

	require.Equal(t, game.StatusFinished, out.Status)
	require.Equal(t, game.WinnerBlack, out.Winner)
	require.Contains(t, out.History, "Qh4#")

	// protocol errors keep the connection open
	write(t, white, "resign", nil)
	errEvt := read(t, white, EventError, nil)
	require.Equal(t, "trace-resign", errEvt.TraceID)

	require.NoError(t, white.WriteMessage(websocket.TextMessage, []byte("{not json")))
	read(t, white, EventError, nil)

	require.NoError(t, black.Close())

	read(t, white, EventRoomUpdated, &view)
	require.Equal(t, game.StatusFinished, view.Room.Status)
	require.Len(t, view.Players, 1)

	require.NoError(t, white.Close())

	require.Eventually(t, func() bool {
		return m.registry.Len() == 0 && m.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeWSRateLimit(t *testing.T) {
	config := *testConfig
	config.MessagesPerSecond = 0.001
	config.MessageBurst = 1

	m := NewManager(&config, game.NewRegistry(), store.NopMirror{}, zerolog.Nop())
	conn := dial(t, newTestServer(t, m))

	// the first message uses the burst and gets no reply for an unknown room
	write(t, conn, EventGetRoomState, PayloadRoom{RoomID: "missing"})
	write(t, conn, EventGetRoomState, PayloadRoom{RoomID: "missing"})

	var payload PayloadError
	read(t, conn, EventError, &payload)
	require.Equal(t, errRateLimited.Error(), payload.Message)
}

func TestCheckOrigin(t *testing.T) {
	config := *testConfig
	config.AllowedOrigins = []string{"http://localhost:3000"}

	m := NewManager(&config, game.NewRegistry(), store.NopMirror{}, zerolog.Nop())

	testCases := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"http://evil.example.com", false},
	}

	for _, tc := range testCases {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		require.Equal(t, tc.allowed, m.checkOrigin(r), "origin %q", tc.origin)
	}

	open := NewManager(&util.Config{AllowedOrigins: []string{"*"}}, game.NewRegistry(), store.NopMirror{}, zerolog.Nop())
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "http://anything.example.com")
	require.True(t, open.checkOrigin(r))
}
