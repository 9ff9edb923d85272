package runtime_test

import (
	"testing"

	"github.com/aretw0/patrol/internal/compiler"
	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/require"
)

const sampleGrid = `....#.....
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

func parse(t *testing.T, text string) *domain.Scenario {
	t.Helper()
	sc, err := compiler.NewParser().Parse([]byte(text))
	require.NoError(t, err)
	return sc
}
