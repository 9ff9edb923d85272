package domain

import (
	"fmt"
	"slices"
)

// Position is a cell coordinate on the grid. X grows to the right, Y grows downwards.
// Positions are values: moving produces a new Position, never a mutated one.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is a shorthand constructor.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Step returns the neighbouring cell in the given heading.
func (p Position) Step(h Heading) Position {
	dx, dy := h.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Less orders positions row-major (by Y, then X).
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ComparePositions is a row-major comparator suitable for slices.SortFunc.
func ComparePositions(a, b Position) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// SortPositions sorts in place, row-major.
func SortPositions(ps []Position) {
	slices.SortFunc(ps, ComparePositions)
}
