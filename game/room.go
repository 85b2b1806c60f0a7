package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

// captureEvery is the per-player move interval at which clients are asked to
// take a monitoring snapshot.
const captureEvery = 5

// Room holds one game's authoritative state. A Room is not safe for concurrent
// use on its own; the Registry serializes every access under the room's lock.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	retired   bool
	rules     RulesEngine
	players   map[string]*Player
	status    Status
	winner    Winner
	pickColor func() Color
}

func NewRoom(id string, rules RulesEngine, pickColor func() Color, now time.Time) *Room {
	return &Room{
		ID:        id,
		CreatedAt: now,
		rules:     rules,
		players:   make(map[string]*Player, 2),
		status:    StatusWaiting,
		winner:    WinnerNone,
		pickColor: pickColor,
	}
}

func (r *Room) Status() Status {
	return r.status
}

func (r *Room) Winner() Winner {
	return r.winner
}

func (r *Room) Seats() int {
	return len(r.players)
}

func (r *Room) Player(connID string) (Player, bool) {
	p, ok := r.players[connID]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Join seats connID. The first seat gets a random color, the second one the
// complement. A connection that already holds a seat gets it back unchanged.
func (r *Room) Join(connID, name string) (Player, error) {
	if p, ok := r.players[connID]; ok {
		return *p, nil
	}

	if len(r.players) >= 2 {
		return Player{}, ErrRoomFull
	}

	color := r.pickColor()
	for _, other := range r.players {
		color = other.Color.Opposite()
	}

	p := &Player{
		ID:    connID,
		Name:  name,
		Color: color,
	}
	r.players[connID] = p

	if len(r.players) == 2 && r.status == StatusWaiting {
		r.status = StatusPlaying
	}

	return *p, nil
}

// Leave removes connID's seat and reports whether it held one. A playing room
// that drops to one seat goes back to waiting; a finished room stays finished.
func (r *Room) Leave(connID string) bool {
	if _, ok := r.players[connID]; !ok {
		return false
	}

	delete(r.players, connID)

	if len(r.players) == 1 && r.status == StatusPlaying {
		r.status = StatusWaiting
	}

	return true
}

// Move applies notation on behalf of connID. On error the room is unchanged.
func (r *Room) Move(connID, notation string) (MoveOutcome, error) {
	if r.status != StatusPlaying {
		return MoveOutcome{}, ErrRoomNotPlaying
	}

	p, ok := r.players[connID]
	if !ok {
		return MoveOutcome{}, ErrNotSeated
	}

	if turn := r.rules.TurnOwner(); turn != p.Color {
		return MoveOutcome{}, fmt.Errorf("%w: it is %v's turn", ErrInvalidMove, turn)
	}

	notation = strings.TrimSpace(notation)
	if err := r.rules.ApplyMove(notation); err != nil {
		return MoveOutcome{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	p.MoveCount++
	r.evaluate()

	return MoveOutcome{
		Move:          notation,
		Position:      r.rules.Position(),
		History:       r.rules.History(),
		Status:        r.status,
		Winner:        r.winner,
		MoveCount:     p.MoveCount,
		PlayerID:      p.ID,
		ShouldCapture: p.MoveCount%captureEvery == 0,
	}, nil
}

// evaluate checks termination in fixed precedence: checkmate, draw, stalemate.
func (r *Room) evaluate() {
	switch {
	case r.rules.IsCheckmate():
		r.status = StatusFinished
		r.winner = winnerOf(r.rules.TurnOwner().Opposite())
	case r.rules.IsDraw():
		r.status = StatusFinished
		r.winner = WinnerDraw
	case r.rules.IsStalemate():
		r.status = StatusFinished
		r.winner = WinnerDraw
	}
}

// View snapshots the room. Players are listed white first.
func (r *Room) View() View {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}

	slices.SortFunc(players, func(a, b Player) bool {
		return a.Color == White && b.Color != White
	})

	return View{
		Room: RoomData{
			ID:       r.ID,
			Status:   r.status,
			Winner:   r.winner,
			Position: r.rules.Position(),
			History:  r.rules.History(),
		},
		Players: players,
	}
}
