package domain

import "fmt"

// Grid is an immutable rectangular area with a set of obstacle cells.
//
// A Grid is never modified after construction. WithObstacle derives a new Grid that
// shares the receiver's base obstacle set and records the additional cells in a small
// overlay, so probing many hypothetical obstacles costs memory proportional to the
// number of obstacles, not to the grid area.
type Grid struct {
	width  int
	height int

	// base is shared between a grid and every grid derived from it. Read-only.
	base map[Position]struct{}
	// extra holds obstacles added through WithObstacle. Never appended in place.
	extra []Position
}

// NewGrid builds a grid of the given size. Every obstacle must lie inside the bounds.
func NewGrid(width, height int, obstacles []Position) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidGrid, width, height)
	}

	g := &Grid{
		width:  width,
		height: height,
		base:   make(map[Position]struct{}, len(obstacles)),
	}
	for _, p := range obstacles {
		if !g.Contains(p) {
			return nil, fmt.Errorf("%w: obstacle %s outside %dx%d grid", ErrInvalidGrid, p, width, height)
		}
		g.base[p] = struct{}{}
	}
	return g, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// Area is width × height.
func (g *Grid) Area() int { return g.width * g.height }

// Contains reports whether p lies inside [0,width)×[0,height).
func (g *Grid) Contains(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// IsObstacle reports whether p holds an obstacle. Out-of-range positions are never obstacles.
func (g *Grid) IsObstacle(p Position) bool {
	if _, ok := g.base[p]; ok {
		return true
	}
	for _, e := range g.extra {
		if e == p {
			return true
		}
	}
	return false
}

// WithObstacle returns a new grid equal to g plus an obstacle at p.
// The receiver is left untouched. Positions outside the grid or already blocked
// yield a grid equivalent to g.
func (g *Grid) WithObstacle(p Position) *Grid {
	next := &Grid{
		width:  g.width,
		height: g.height,
		base:   g.base,
	}
	if !g.Contains(p) || g.IsObstacle(p) {
		next.extra = g.extra
		return next
	}
	next.extra = make([]Position, len(g.extra), len(g.extra)+1)
	copy(next.extra, g.extra)
	next.extra = append(next.extra, p)
	return next
}

// ObstacleCount returns the number of obstacle cells.
func (g *Grid) ObstacleCount() int {
	return len(g.base) + len(g.extra)
}

// Obstacles lists every obstacle, sorted row-major.
func (g *Grid) Obstacles() []Position {
	out := make([]Position, 0, g.ObstacleCount())
	for p := range g.base {
		out = append(out, p)
	}
	out = append(out, g.extra...)
	SortPositions(out)
	return out
}
