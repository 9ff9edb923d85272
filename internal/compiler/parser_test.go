package compiler_test

import (
	"errors"
	"testing"

	"github.com/aretw0/patrol/internal/compiler"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `....#.....
.........#
..........
..#.......
.......#..
..........
.#..^.....
........#.
#.........
......#...
`

func TestParser_Sample(t *testing.T) {
	sc, err := compiler.NewParser().Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 10, sc.Grid.Width())
	assert.Equal(t, 10, sc.Grid.Height())
	assert.Equal(t, 8, sc.Grid.ObstacleCount())
	assert.Equal(t, domain.Pos(4, 6), sc.Agent.Start)
	assert.Equal(t, domain.Pos(4, 6), sc.Agent.Position)
	assert.Equal(t, domain.Up, sc.Agent.Heading)
	assert.True(t, sc.Grid.IsObstacle(domain.Pos(4, 0)))
	assert.True(t, sc.Grid.IsObstacle(domain.Pos(6, 9)))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
		reason string
	}{
		{"Empty", "", 0, 0, "empty grid"},
		{"OnlyNewlines", "\n\n", 0, 0, "empty grid"},
		{"NoAgent", "..\n.#\n", 0, 0, "no agent marker found"},
		{"DuplicateAgent", "^.\n.^\n", 2, 2, "duplicate agent marker"},
		{"MixedDuplicateAgent", ">.\n.v\n", 2, 2, "duplicate agent marker"},
		{"InvalidChar", "^.\n.x\n", 2, 2, "invalid character"},
		{"Ragged", "^..\n..\n", 2, 0, "expected width 3, got 2"},
		{"BlankInterior", "^.\n\n..\n", 2, 0, "expected width 2, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedInput)

			var perr *compiler.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.column, perr.Column)
			assert.Equal(t, tt.reason, perr.Reason)
		})
	}
}

func TestParser_InvalidCharMessage(t *testing.T) {
	_, err := compiler.NewParser().Parse([]byte("^.\n.x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2, column 2")
	assert.Contains(t, err.Error(), `'x'`)
}

func TestParser_CRLF(t *testing.T) {
	sc, err := compiler.NewParser().Parse([]byte("#.\r\n.^\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Grid.Width())
	assert.Equal(t, domain.Pos(1, 1), sc.Agent.Start)
}

func TestFormat_RoundTrip(t *testing.T) {
	sc, err := compiler.NewParser().Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, compiler.Format(sc))

	withExtra := compiler.Format(sc, domain.Pos(3, 6))
	again, err := compiler.NewParser().Parse([]byte(withExtra))
	require.NoError(t, err)
	assert.True(t, again.Grid.IsObstacle(domain.Pos(3, 6)))
	assert.False(t, sc.Grid.IsObstacle(domain.Pos(3, 6)))
}

func TestParser_MarkerSetsHeading(t *testing.T) {
	tests := []struct {
		marker  string
		heading domain.Heading
	}{
		{"^", domain.Up},
		{">", domain.Right},
		{"v", domain.Down},
		{"<", domain.Left},
	}

	for _, tt := range tests {
		t.Run(tt.heading.String(), func(t *testing.T) {
			input := "...\n." + tt.marker + ".\n...\n"
			sc, err := compiler.NewParser().Parse([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, domain.Pos(1, 1), sc.Agent.Start)
			assert.Equal(t, tt.heading, sc.Agent.Heading)
			assert.Equal(t, input, compiler.Format(sc))
		})
	}
}

func TestDigest_IgnoresLineEndings(t *testing.T) {
	assert.Equal(t, compiler.Digest([]byte("^.\n..\n")), compiler.Digest([]byte("^.\r\n..\r\n\n")))
	assert.NotEqual(t, compiler.Digest([]byte("^.\n..\n")), compiler.Digest([]byte("^.\n.#\n")))
}
