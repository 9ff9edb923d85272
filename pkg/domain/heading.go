package domain

import "fmt"

// Heading is one of the four directions the agent can face.
// The zero value is Up.
type Heading uint8

const (
	Up Heading = iota
	Right
	Down
	Left
)

// headingCount is the size of the clockwise cycle.
const headingCount = 4

var headingNames = [headingCount]string{"up", "right", "down", "left"}

// TurnRight rotates the heading one step clockwise: Up→Right→Down→Left→Up.
func (h Heading) TurnRight() Heading {
	return (h + 1) % headingCount
}

// Delta returns the unit step (dx, dy) for the heading.
func (h Heading) Delta() (int, int) {
	switch h {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Valid reports whether h is one of the four defined headings.
func (h Heading) Valid() bool {
	return h < headingCount
}

// Marker returns the grid character drawn for an agent facing h.
func (h Heading) Marker() rune {
	switch h {
	case Right:
		return '>'
	case Down:
		return 'v'
	case Left:
		return '<'
	}
	return '^'
}

// bit is the heading's flag inside a per-cell heading mask.
func (h Heading) bit() uint8 {
	return 1 << h
}

func (h Heading) String() string {
	if !h.Valid() {
		return fmt.Sprintf("heading(%d)", uint8(h))
	}
	return headingNames[h]
}

// MarshalText encodes the heading by name.
func (h Heading) MarshalText() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid heading %d", uint8(h))
	}
	return []byte(headingNames[h]), nil
}

// UnmarshalText decodes a heading name ("up", "right", "down", "left").
func (h *Heading) UnmarshalText(text []byte) error {
	parsed, err := ParseHeading(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// ParseHeading resolves a heading by name.
func ParseHeading(name string) (Heading, error) {
	for i, n := range headingNames {
		if n == name {
			return Heading(i), nil
		}
	}
	return Up, fmt.Errorf("unknown heading %q", name)
}

// HeadingFromMarker maps an agent marker character to its heading.
func HeadingFromMarker(r rune) (Heading, bool) {
	switch r {
	case '^':
		return Up, true
	case '>':
		return Right, true
	case 'v':
		return Down, true
	case '<':
		return Left, true
	}
	return Up, false
}
