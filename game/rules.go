package game

import (
	"errors"
	"strings"

	"github.com/notnil/chess"
	"github.com/samber/lo"
)

// RulesEngine is the authority on move legality and game termination.
// A Room owns exactly one engine and never exposes it beyond its notations.
type RulesEngine interface {
	// ApplyMove plays notation for the side to move. A non-nil error means the
	// move was rejected and the position is unchanged.
	ApplyMove(notation string) error
	TurnOwner() Color
	IsCheckmate() bool
	IsDraw() bool
	IsStalemate() bool
	// Position returns the FEN of the current position.
	Position() string
	// History returns the PGN movetext of the moves played so far.
	History() string
}

type EngineFactory func() RulesEngine

var errEmptyMove = errors.New("empty move")

var drawMethods = []chess.Method{
	chess.Stalemate,
	chess.InsufficientMaterial,
	chess.FivefoldRepetition,
	chess.SeventyFiveMoveRule,
}

var claimableDraws = []chess.Method{
	chess.ThreefoldRepetition,
	chess.FiftyMoveRule,
}

// ChessEngine implements RulesEngine on top of notnil/chess.
type ChessEngine struct {
	game *chess.Game
}

func NewChessEngine() RulesEngine {
	return &ChessEngine{game: chess.NewGame()}
}

// ApplyMove accepts standard algebraic notation and falls back to long
// algebraic (UCI) notation such as "e2e4".
func (e *ChessEngine) ApplyMove(notation string) error {
	notation = strings.TrimSpace(notation)
	if notation == "" {
		return errEmptyMove
	}

	sanErr := e.game.MoveStr(notation)
	if sanErr == nil {
		return nil
	}

	move, err := chess.UCINotation{}.Decode(e.game.Position(), notation)
	if err != nil {
		return sanErr
	}

	return e.game.Move(move)
}

func (e *ChessEngine) TurnOwner() Color {
	if e.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func (e *ChessEngine) IsCheckmate() bool {
	return e.game.Method() == chess.Checkmate
}

func (e *ChessEngine) IsDraw() bool {
	if lo.Contains(drawMethods, e.game.Method()) {
		return true
	}

	eligible := e.game.EligibleDraws()
	return lo.SomeBy(claimableDraws, func(m chess.Method) bool {
		return lo.Contains(eligible, m)
	})
}

func (e *ChessEngine) IsStalemate() bool {
	return e.game.Method() == chess.Stalemate
}

func (e *ChessEngine) Position() string {
	return e.game.Position().String()
}

// History is the movetext alone, without tag pairs or the result marker. It
// is empty before the first move.
func (e *ChessEngine) History() string {
	pgn := strings.TrimSpace(e.game.String())
	return strings.TrimSpace(strings.TrimSuffix(pgn, string(e.game.Outcome())))
}
