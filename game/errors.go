package game

import "errors"

var (
	ErrRoomFull       = errors.New("room is full")
	ErrInvalidMove    = errors.New("invalid move")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomNotPlaying = errors.New("game is not in progress")
	ErrNotSeated      = errors.New("player not in room")
)

// IsRoomError reports whether err belongs to the recoverable room error set.
func IsRoomError(err error) bool {
	return errors.Is(err, ErrRoomFull) ||
		errors.Is(err, ErrInvalidMove) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrRoomNotPlaying) ||
		errors.Is(err, ErrNotSeated)
}

// ClientMessage maps a room error to the text sent in move-error events.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomFull):
		return "Room is full"
	case errors.Is(err, ErrInvalidMove):
		return "Invalid move"
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, ErrRoomNotPlaying):
		return "Game is not in progress"
	case errors.Is(err, ErrNotSeated):
		return "Player not in room"
	default:
		return "Something went wrong!"
	}
}
