package game

import (
	"errors"
	"fmt"
	"strings"
)

// fakeEngine plays any move that is not listed as illegal and flips the turn.
// Moves listed in mates, draws or stalemates put the game in that state.
type fakeEngine struct {
	turn       Color
	moves      []string
	illegal    map[string]bool
	mates      map[string]bool
	draws      map[string]bool
	stalemates map[string]bool

	checkmate bool
	draw      bool
	stalemate bool
	applied   int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		turn:       White,
		illegal:    map[string]bool{},
		mates:      map[string]bool{},
		draws:      map[string]bool{},
		stalemates: map[string]bool{},
	}
}

func (e *fakeEngine) ApplyMove(notation string) error {
	e.applied++
	if notation == "" || e.illegal[notation] {
		return errors.New("illegal move")
	}

	e.moves = append(e.moves, notation)
	e.turn = e.turn.Opposite()
	e.checkmate = e.mates[notation]
	e.draw = e.draws[notation]
	e.stalemate = e.stalemates[notation]
	return nil
}

func (e *fakeEngine) TurnOwner() Color  { return e.turn }
func (e *fakeEngine) IsCheckmate() bool { return e.checkmate }
func (e *fakeEngine) IsDraw() bool      { return e.draw }
func (e *fakeEngine) IsStalemate() bool { return e.stalemate }

func (e *fakeEngine) Position() string {
	return fmt.Sprintf("position-%d-%v", len(e.moves), e.turn)
}

func (e *fakeEngine) History() string {
	return strings.Join(e.moves, " ")
}
