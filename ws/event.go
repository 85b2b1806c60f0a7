package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/judgegodwins/chess-rooms/http_utils"
	"github.com/judgegodwins/chess-rooms/util"
)

type Event struct {
	Type    string          `json:"type"`
	TraceID string          `json:"trace_id,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

type EventHandler func(ctx context.Context, evt Event, c *Client) error

// client -> coordinator
const (
	EventJoinRoom     = "join-room"
	EventGetRoomState = "get-room-state"
	EventMakeMove     = "make-move"
	EventLeaveRoom    = "leave-room"
)

// coordinator -> client
const (
	EventRoomFull    = "room-full"
	EventRoomUpdated = "room-updated"
	EventRoomState   = "room-state"
	EventMoveMade    = "move-made"
	EventMoveError   = "move-error"
	EventError       = "error"
)

var (
	errUnknownEvent = errors.New("there is no such event type")
	errRateLimited  = errors.New("too many messages, slow down")
)

type PayloadError struct {
	Message string `json:"message"`
}

type PayloadMoveError struct {
	Error string `json:"error"`
}

type PayloadRoom struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type PayloadJoinRoom struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
	Name   string `json:"name" validate:"max=32"`
}

type PayloadMakeMove struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
	Move   string `json:"move" validate:"required,max=16"`
}

func NewEvent(evtType string, payload any) (Event, error) {
	b, err := json.Marshal(payload)

	if err != nil {
		return Event{}, err
	}

	evt := NewEventStruct(evtType, b, "")

	return evt, nil
}

func NewErrorEvent(traceId, message string) (Event, error) {
	payload := PayloadError{Message: message}
	b, err := json.Marshal(payload)

	if err != nil {
		return Event{}, err
	}

	evt := NewEventStruct(EventError, b, traceId)

	return evt, nil
}

func NewEventStruct(evtType string, payload []byte, traceId string) Event {
	return Event{
		Type:    evtType,
		TraceID: traceId,
		Payload: payload,
	}
}

// decodePayload unmarshals and validates the payload of e into v.
func decodePayload(e Event, v any) error {
	payload := e.Payload
	if len(payload) == 0 || string(payload) == "null" {
		payload = json.RawMessage("{}")
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid %v payload: %w", e.Type, err)
	}

	if err := util.Validate.Struct(v); err != nil {
		return fmt.Errorf("invalid %v payload: %v", e.Type, strings.Join(http_utils.ValidationMessages(err), "; "))
	}

	return nil
}
