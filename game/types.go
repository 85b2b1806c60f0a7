package game

import "encoding/json"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Winner is only set once a room is finished. WinnerNone is encoded as JSON null.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

func winnerOf(c Color) Winner {
	if c == White {
		return WinnerWhite
	}
	return WinnerBlack
}

func (w Winner) MarshalJSON() ([]byte, error) {
	if w == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = WinnerNone
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*w = Winner(s)
	return nil
}

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     Color  `json:"color"`
	MoveCount int    `json:"moveCount"`
}

// RoomData is the part of a room that is shared with clients.
type RoomData struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Winner   Winner `json:"winner"`
	Position string `json:"position"`
	History  string `json:"history"`
}

// View is the payload of room-updated and room-state events.
type View struct {
	Room    RoomData `json:"room"`
	Players []Player `json:"players"`
}

// MoveOutcome describes an accepted move. It is the payload of move-made.
type MoveOutcome struct {
	Move          string `json:"move"`
	Position      string `json:"position"`
	History       string `json:"history"`
	Status        Status `json:"status"`
	Winner        Winner `json:"winner"`
	MoveCount     int    `json:"moveCount"`
	PlayerID      string `json:"playerId"`
	ShouldCapture bool   `json:"shouldCapture"`
}
