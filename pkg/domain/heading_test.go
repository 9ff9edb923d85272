package domain_test

import (
	"testing"

	"github.com/aretw0/patrol/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeading_TurnRight(t *testing.T) {
	tests := []struct {
		from, want domain.Heading
	}{
		{domain.Up, domain.Right},
		{domain.Right, domain.Down},
		{domain.Down, domain.Left},
		{domain.Left, domain.Up},
	}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.TurnRight())
		})
	}
}

func TestHeading_FourTurnsIsIdentity(t *testing.T) {
	for _, h := range []domain.Heading{domain.Up, domain.Right, domain.Down, domain.Left} {
		got := h.TurnRight().TurnRight().TurnRight().TurnRight()
		assert.Equal(t, h, got, "four turns from %s", h)
	}
}

func TestHeading_DeltaIsUnitStep(t *testing.T) {
	origin := domain.Pos(5, 5)
	assert.Equal(t, domain.Pos(5, 4), origin.Step(domain.Up))
	assert.Equal(t, domain.Pos(6, 5), origin.Step(domain.Right))
	assert.Equal(t, domain.Pos(5, 6), origin.Step(domain.Down))
	assert.Equal(t, domain.Pos(4, 5), origin.Step(domain.Left))
}

func TestHeading_Text(t *testing.T) {
	for _, h := range []domain.Heading{domain.Up, domain.Right, domain.Down, domain.Left} {
		text, err := h.MarshalText()
		require.NoError(t, err)

		var back domain.Heading
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, h, back)
	}

	var h domain.Heading
	assert.Error(t, h.UnmarshalText([]byte("north")))

	_, err := domain.Heading(7).MarshalText()
	assert.Error(t, err)
}

func TestHeadingFromMarker(t *testing.T) {
	h, ok := domain.HeadingFromMarker('^')
	assert.True(t, ok)
	assert.Equal(t, domain.Up, h)

	h, ok = domain.HeadingFromMarker('<')
	assert.True(t, ok)
	assert.Equal(t, domain.Left, h)
	assert.Equal(t, '<', h.Marker())

	_, ok = domain.HeadingFromMarker('#')
	assert.False(t, ok)
}
