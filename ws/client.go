package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"golang.org/x/time/rate"
)

const writeWait = 10 * time.Second

type Client struct {
	ID         string
	connection *websocket.Conn
	manager    *Manager
	egress     chan Event
	limiter    *rate.Limiter
	log        zerolog.Logger
	err        chan error

	// room the client is seated in, guarded by the manager lock
	roomID string
}

func NewClient(conn *websocket.Conn, manager *Manager) *Client {
	id := uuid.NewString()

	return &Client{
		ID:         id,
		connection: conn,
		manager:    manager,
		egress:     make(chan Event, manager.config.EgressBuffer),
		limiter:    rate.NewLimiter(rate.Limit(manager.config.MessagesPerSecond), manager.config.MessageBurst),
		log:        manager.log.With().Str("conn_id", id).Logger(),
		err:        make(chan error, 2),
	}
}

// Reads incoming messages from the clients websocket connection. Events are
// handled one at a time, in arrival order.
func (c *Client) readMessages(ctx context.Context) {
	pongWait := c.manager.config.PongWait

	c.connection.SetReadLimit(c.manager.config.MaxMessageSize)

	if err := c.connection.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.handleError(err)
		return
	}

	c.connection.SetPongHandler(func(string) error {
		return c.connection.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, payload, err := c.connection.ReadMessage()

			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					c.log.Warn().Err(err).Msg("unexpected closure of socket connection")
				}
				c.handleError(err)
				return
			}

			var evt Event

			if err := json.Unmarshal(payload, &evt); err != nil {
				c.pushError("", "cannot unmarshal json payload")
				continue
			}

			if !c.limiter.Allow() {
				c.pushError(evt.TraceID, errRateLimited.Error())
				continue
			}

			if err := c.manager.routeEvent(ctx, evt, c); err != nil {
				c.log.Debug().Err(err).Str("event", evt.Type).Msg("error handling event")
				c.pushError(evt.TraceID, err.Error())
			}
		}
	}
}

// writes messages pushed to the client's egress channel
func (c *Client) writeMessages(ctx context.Context) {
	ticker := time.NewTicker(c.manager.config.PingInterval())

	defer func() {
		ticker.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case message := <-c.egress:
			data, err := json.Marshal(message)

			if err != nil {
				c.log.Error().Err(err).Str("event", message.Type).Msg("error marshalling event")
				continue
			}

			c.connection.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.connection.WriteMessage(websocket.TextMessage, data); err != nil {
				c.handleError(err)
				return
			}
		case <-ticker.C:
			c.connection.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.connection.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				c.handleError(err)
				return
			}
		}
	}
}

// Push error to client error channel. ServeWS waits on it to tear the
// connection down. Only the first error matters, later ones are dropped.
func (c *Client) handleError(e error) {
	select {
	case c.err <- e:
	default:
	}
}

// Returns the error channel
func (c *Client) Err() chan error {
	return c.err
}

// Creates an event and pushes to client's egress
func (c *Client) PushEventToEgress(evtType string, payload any) error {
	evt, err := NewEvent(evtType, payload)
	if err != nil {
		return err
	}
	c.PushToEgress(evt)
	return nil
}

// PushToEgress queues evt for delivery. A client that is not keeping up loses
// the event; other recipients and the room state are unaffected.
func (c *Client) PushToEgress(evt Event) {
	select {
	case c.egress <- evt:
	default:
		c.log.Warn().Str("event", evt.Type).Msg("egress full, dropping event")
	}
}

func (c *Client) pushError(traceID, message string) {
	evt, err := NewErrorEvent(traceID, message)
	if err != nil {
		c.log.Error().Err(err).Msg("error creating error event")
		return
	}
	c.PushToEgress(evt)
}

// Join subscribes the client to broadcasts of roomId.
func (c *Client) Join(roomId string) {
	c.manager.Lock()
	defer c.manager.Unlock()

	room := c.manager.Rooms[roomId]

	// if client is not in room
	if !slices.Contains(room, c) {
		c.manager.Rooms[roomId] = append(room, c)
	}

	c.roomID = roomId
}

// Leave unsubscribes the client from roomId.
func (c *Client) Leave(roomId string) {
	c.manager.Lock()
	defer c.manager.Unlock()

	if c.roomID == roomId {
		c.roomID = ""
	}

	room, ok := c.manager.Rooms[roomId]

	if !ok {
		return
	}

	if index := slices.Index(room, c); index >= 0 {
		room = slices.Delete(room, index, index+1)
	}

	if len(room) == 0 {
		delete(c.manager.Rooms, roomId)
		return
	}

	c.manager.Rooms[roomId] = room
}

// RoomID returns the room the client is seated in, or "".
func (c *Client) RoomID() string {
	c.manager.RLock()
	defer c.manager.RUnlock()

	return c.roomID
}

func (c *Client) close() {
	if c.connection == nil {
		return
	}

	err := c.connection.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)

	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.log.Debug().Err(err).Msg("error sending close message")
	}

	c.connection.Close()
}
