package game

import (
	"fmt"
	"math/rand"
)

var (
	nameAdjectives = []string{"Swift", "Bold", "Clever", "Noble", "Brave", "Wise", "Fierce", "Calm"}
	nameNouns      = []string{"Knight", "Rook", "Bishop", "Pawn", "King", "Queen", "Player", "Master"}
)

// RandomName returns a display name such as "SwiftKnight412" for players
// that join without one.
func RandomName() string {
	return fmt.Sprintf("%v%v%d",
		nameAdjectives[rand.Intn(len(nameAdjectives))],
		nameNouns[rand.Intn(len(nameNouns))],
		rand.Intn(1000),
	)
}

func randomColor() Color {
	if rand.Intn(2) == 0 {
		return White
	}
	return Black
}
