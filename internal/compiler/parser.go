package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aretw0/patrol/pkg/domain"
)

// Grid characters. The agent is drawn with its heading marker ('^', '>', 'v' or '<').
const (
	CellEmpty    = '.'
	CellObstacle = '#'
)

// ParseError describes why a grid description was rejected.
// Line and Column are 1-based; they are zero when the error is not tied to a cell.
type ParseError struct {
	Line   int
	Column int
	Char   rune
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", domain.ErrMalformedInput, e.Reason)
	}
	if e.Column == 0 {
		return fmt.Sprintf("%s: line %d: %s", domain.ErrMalformedInput, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: line %d, column %d: %s %q", domain.ErrMalformedInput, e.Line, e.Column, e.Reason, e.Char)
}

// Unwrap lets callers match with errors.Is(err, domain.ErrMalformedInput).
func (e *ParseError) Unwrap() error {
	return domain.ErrMalformedInput
}

// Parser converts a text grid into a Scenario.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a rectangular block of lines made of '.', '#' and exactly one agent
// marker, which also sets the starting heading. Height is the number of lines and width the length of the first; every line must
// share that width.
func (p *Parser) Parse(data []byte) (*domain.Scenario, error) {
	lines := Lines(data)
	if len(lines) == 0 {
		return nil, &ParseError{Reason: "empty grid"}
	}

	width := len([]rune(lines[0]))
	if width == 0 {
		return nil, &ParseError{Line: 1, Reason: "empty line"}
	}

	var (
		obstacles []domain.Position
		start     *domain.Position
		heading   = domain.Up
	)
	for y, line := range lines {
		runes := []rune(line)
		if len(runes) != width {
			return nil, &ParseError{
				Line:   y + 1,
				Reason: fmt.Sprintf("expected width %d, got %d", width, len(runes)),
			}
		}
		for x, c := range runes {
			switch c {
			case CellEmpty:
			case CellObstacle:
				obstacles = append(obstacles, domain.Pos(x, y))
			default:
				h, ok := domain.HeadingFromMarker(c)
				if !ok {
					return nil, &ParseError{Line: y + 1, Column: x + 1, Char: c, Reason: "invalid character"}
				}
				if start != nil {
					return nil, &ParseError{Line: y + 1, Column: x + 1, Char: c, Reason: "duplicate agent marker"}
				}
				pos := domain.Pos(x, y)
				start, heading = &pos, h
			}
		}
	}
	if start == nil {
		return nil, &ParseError{Reason: "no agent marker found"}
	}

	grid, err := domain.NewGrid(width, len(lines), obstacles)
	if err != nil {
		return nil, fmt.Errorf("failed to build grid: %w", err)
	}

	return &domain.Scenario{
		Grid:  grid,
		Agent: domain.NewAgent(*start, heading),
	}, nil
}

// Lines splits input into grid rows, dropping carriage returns and trailing blank lines.
func Lines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Digest fingerprints the normalized grid text so identical inputs share stored reports.
func Digest(data []byte) string {
	sum := sha256.Sum256([]byte(strings.Join(Lines(data), "\n")))
	return hex.EncodeToString(sum[:])
}

// Format renders a scenario back to its text form, which Parse reads back to the
// same scenario. Cells in extra are drawn as
// obstacles, which is how a hypothetical grid is shown.
func Format(sc *domain.Scenario, extra ...domain.Position) string {
	g := sc.Grid
	for _, p := range extra {
		g = g.WithObstacle(p)
	}

	var b strings.Builder
	b.Grow((g.Width() + 1) * g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := domain.Pos(x, y)
			switch {
			case p == sc.Agent.Start:
				b.WriteRune(sc.Agent.Heading.Marker())
			case g.IsObstacle(p):
				b.WriteRune(CellObstacle)
			default:
				b.WriteRune(CellEmpty)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
