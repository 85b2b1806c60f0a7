package ws

import (
	"context"
	"errors"
	"strings"

	"github.com/judgegodwins/chess-rooms/game"
)

// JoinGameRoom seats the client in the requested room, creating the room on
// first use, and broadcasts the new room view to everyone in it.
func JoinGameRoom(ctx context.Context, e Event, c *Client) error {
	var payload PayloadJoinRoom

	if err := decodePayload(e, &payload); err != nil {
		return err
	}

	m := c.manager
	previous := c.RoomID()

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = game.RandomName()
	}

	seated := false

	err := m.registry.DoOrCreate(payload.RoomID, func(room *game.Room) error {
		player, err := room.Join(c.ID, name)
		if err != nil {
			return err
		}

		seated = true
		c.Join(payload.RoomID)
		c.log.Info().
			Str("room_id", payload.RoomID).
			Str("color", string(player.Color)).
			Str("status", string(room.Status())).
			Msg("player joined room")

		view := room.View()
		m.mirror.Publish(view)

		return m.broadcast(payload.RoomID, EventRoomUpdated, view)
	})

	if errors.Is(err, game.ErrRoomFull) {
		c.log.Debug().Str("room_id", payload.RoomID).Msg("room full")
		return c.PushEventToEgress(EventRoomFull, struct{}{})
	}

	// a connection holds at most one seat, released once the new one is taken
	if seated && previous != "" && previous != payload.RoomID {
		m.leaveRoom(c, previous)
	}

	return err
}

// GetRoomState sends the current room view to the requester only. Unknown
// rooms are ignored.
func GetRoomState(ctx context.Context, e Event, c *Client) error {
	var payload PayloadRoom

	if err := decodePayload(e, &payload); err != nil {
		return err
	}

	err := c.manager.registry.Do(payload.RoomID, func(room *game.Room) error {
		return c.PushEventToEgress(EventRoomState, room.View())
	})

	if errors.Is(err, game.ErrRoomNotFound) {
		return nil
	}

	return err
}

// MakeMove applies a move for the client and broadcasts the outcome. Rejected
// moves are reported to the requester only.
func MakeMove(ctx context.Context, e Event, c *Client) error {
	var payload PayloadMakeMove

	if err := decodePayload(e, &payload); err != nil {
		return err
	}

	m := c.manager

	err := m.registry.Do(payload.RoomID, func(room *game.Room) error {
		outcome, err := room.Move(c.ID, payload.Move)
		if err != nil {
			return err
		}

		if outcome.Status == game.StatusFinished {
			c.log.Info().
				Str("room_id", payload.RoomID).
				Str("winner", string(outcome.Winner)).
				Msg("game finished")
		}

		m.mirror.Publish(room.View())

		return m.broadcast(payload.RoomID, EventMoveMade, outcome)
	})

	if game.IsRoomError(err) {
		c.log.Debug().Err(err).Str("room_id", payload.RoomID).Str("move", payload.Move).Msg("move rejected")
		return c.PushEventToEgress(EventMoveError, PayloadMoveError{Error: game.ClientMessage(err)})
	}

	return err
}

// LeaveGameRoom gives up the client's seat in the named room.
func LeaveGameRoom(ctx context.Context, e Event, c *Client) error {
	var payload PayloadRoom

	if err := decodePayload(e, &payload); err != nil {
		return err
	}

	if c.RoomID() != payload.RoomID {
		return nil
	}

	c.manager.leaveRoom(c, payload.RoomID)
	return nil
}
