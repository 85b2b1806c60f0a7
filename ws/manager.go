package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/store"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

type ClientList map[string]*Client

// Manager is the connection gateway. It tracks live connections, routes their
// events to the room registry and fans room events out to subscribers.
type Manager struct {
	clients ClientList
	sync.RWMutex
	handlers map[string]EventHandler
	// Rooms holds the subscribers of each room id
	Rooms    map[string][]*Client
	registry *game.Registry
	mirror   store.Mirror
	config   *util.Config
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewManager(config *util.Config, registry *game.Registry, mirror store.Mirror, log zerolog.Logger) *Manager {
	m := &Manager{
		clients:  make(ClientList),
		handlers: make(map[string]EventHandler),
		Rooms:    make(map[string][]*Client),
		registry: registry,
		mirror:   mirror,
		config:   config,
		log:      log.With().Str("component", "ws").Logger(),
	}

	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     m.checkOrigin,
	}

	m.setupEventHandlers()

	return m
}

func (m *Manager) setupEventHandlers() {
	m.handlers[EventJoinRoom] = JoinGameRoom
	m.handlers[EventGetRoomState] = GetRoomState
	m.handlers[EventMakeMove] = MakeMove
	m.handlers[EventLeaveRoom] = LeaveGameRoom
}

func (m *Manager) routeEvent(ctx context.Context, evt Event, c *Client) error {
	if handler, ok := m.handlers[evt.Type]; ok {
		if err := handler(ctx, evt, c); err != nil {
			return err
		}

		return nil
	}

	return errUnknownEvent
}

func (m *Manager) addClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	m.clients[client.ID] = client
}

func (m *Manager) removeClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	delete(m.clients, client.ID)
}

func (m *Manager) ClientCount() int {
	m.RLock()
	defer m.RUnlock()

	return len(m.clients)
}

// EmitToRoom delivers evt to every subscriber of roomId.
func (m *Manager) EmitToRoom(roomId string, evt Event) {
	m.RLock()
	subscribers := slices.Clone(m.Rooms[roomId])
	m.RUnlock()

	for _, client := range subscribers {
		client.PushToEgress(evt)
	}
}

func (m *Manager) broadcast(roomId, evtType string, payload any) error {
	evt, err := NewEvent(evtType, payload)
	if err != nil {
		return err
	}

	m.EmitToRoom(roomId, evt)
	return nil
}

// Disconnect releases the seat held by c, if any. It is safe to call more than once.
func (m *Manager) Disconnect(c *Client) {
	if roomId := c.RoomID(); roomId != "" {
		m.leaveRoom(c, roomId)
	}
}

// leaveRoom unsubscribes c from roomId, frees its seat and tells the
// remaining players.
func (m *Manager) leaveRoom(c *Client, roomId string) {
	c.Leave(roomId)

	err := m.registry.Do(roomId, func(room *game.Room) error {
		if !room.Leave(c.ID) {
			return nil
		}

		c.log.Info().Str("room_id", roomId).Int("seats", room.Seats()).Msg("player left room")

		if room.Seats() == 0 {
			m.mirror.Forget(roomId)
			return nil
		}

		view := room.View()
		m.mirror.Publish(view)

		return m.broadcast(roomId, EventRoomUpdated, view)
	})

	if err != nil && !errors.Is(err, game.ErrRoomNotFound) {
		c.log.Error().Err(err).Str("room_id", roomId).Msg("error leaving room")
	}
}

// Websocket connection handler
func (m *Manager) ServeWS(c *gin.Context) {
	conn, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)

	if err != nil {
		// the upgrader has already replied with an http error
		m.log.Debug().Err(err).Msg("error upgrading to websocket connection")
		return
	}

	client := NewClient(conn, m)

	m.addClient(client)
	client.log.Info().Str("remote", c.ClientIP()).Msg("client connected")

	ctx, cancel := context.WithCancel(c.Request.Context())

	readDone := make(chan struct{})

	go func() {
		defer close(readDone)
		client.readMessages(ctx)
	}()
	go client.writeMessages(ctx)

	select {
	case err = <-client.Err():
	case <-ctx.Done():
		err = ctx.Err()
	}

	cancel()
	client.close()

	// no event of this client may still be in flight when its seat is released
	<-readDone

	m.Disconnect(client)
	m.removeClient(client)

	client.log.Info().AnErr("reason", err).Msg("client disconnected")
}

func (m *Manager) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	if origin == "" || m.config.AllowsAnyOrigin() {
		return true
	}

	return slices.Contains(m.config.AllowedOrigins, origin)
}
