package tui

import (
	"os"
	"strings"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Cell marks used in rendered grids.
const (
	MarkEmpty    = '.'
	MarkObstacle = '#'
	MarkVisited  = 'X'
	MarkLoop     = 'O'
)

// NewRenderer returns a grid renderer for f. Colours are used only when f is a terminal.
func NewRenderer(f *os.File) func(*domain.Scenario, *domain.Trace, []domain.Position) (string, error) {
	profile := termenv.Ascii
	if term.IsTerminal(int(f.Fd())) {
		profile = termenv.NewOutput(f).ColorProfile()
	}
	return func(sc *domain.Scenario, tr *domain.Trace, loops []domain.Position) (string, error) {
		return Render(sc, tr, loops, profile), nil
	}
}

// Render draws the grid: obstacles '#', the start as its heading marker, cells on the
// trail 'X' and loop-inducing cells 'O'. tr and loops may be nil.
func Render(sc *domain.Scenario, tr *domain.Trace, loops []domain.Position, p termenv.Profile) string {
	loopSet := make(map[domain.Position]struct{}, len(loops))
	for _, l := range loops {
		loopSet[l] = struct{}{}
	}

	var visited domain.VisitedStates
	if tr != nil {
		visited = tr.Visited
	}

	g := sc.Grid
	var b strings.Builder
	b.Grow((g.Width() + 1) * g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			pos := domain.Pos(x, y)
			_, isLoop := loopSet[pos]
			_, isVisited := visited[pos]
			switch {
			case pos == sc.Agent.Start:
				b.WriteString(p.String(string(sc.Agent.Heading.Marker())).Foreground(p.Color("#22d3ee")).Bold().String())
			case g.IsObstacle(pos):
				b.WriteString(p.String(string(MarkObstacle)).Foreground(p.Color("#64748b")).String())
			case isLoop:
				b.WriteString(p.String(string(MarkLoop)).Foreground(p.Color("#f43f5e")).Bold().String())
			case isVisited:
				b.WriteString(p.String(string(MarkVisited)).Foreground(p.Color("#facc15")).String())
			default:
				b.WriteByte(MarkEmpty)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
