package taxi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourney_StartAndAdvance(t *testing.T) {
	t.Parallel()

	j := NewJourney()
	assert.Equal(t, StateIdle, j.State())
	assert.Nil(t, j.Route())

	j.start([]DestinationID{1, 2, 3, 4}, 120)
	assert.Equal(t, StateInFlight, j.State())
	assert.Equal(t, DestinationID(1), j.Source())
	assert.Equal(t, DestinationID(2), j.Destination())
	assert.Equal(t, []DestinationID{3, 4}, j.Remaining())
	assert.Equal(t, uint32(120), j.TotalCost())
	assert.Equal(t, []DestinationID{1, 2, 3, 4}, j.Route())

	next, ok := j.advance()
	require.True(t, ok)
	assert.Equal(t, DestinationID(3), next)
	assert.Equal(t, DestinationID(2), j.Source())
	assert.Equal(t, []DestinationID{4}, j.Remaining())

	_, ok = j.advance()
	require.True(t, ok)
	assert.Empty(t, j.Remaining())

	_, ok = j.advance()
	assert.False(t, ok)
	assert.Equal(t, DestinationID(4), j.Destination(), "final destination stays until cleared")
}

func TestJourney_RemainingIsCopy(t *testing.T) {
	t.Parallel()

	j := NewJourney()
	route := []DestinationID{1, 2, 3}
	j.start(route, 0)
	route[2] = 99

	rem := j.Remaining()
	rem[0] = 77
	assert.Equal(t, []DestinationID{3}, j.Remaining())
}

func TestJourney_ClearActiveLegs(t *testing.T) {
	t.Parallel()

	j := NewJourney()
	j.start([]DestinationID{1, 2, 3}, 10)
	j.beginLeg(10, 541, true)
	j.ClearActiveLegs()

	assert.Equal(t, StateIdle, j.State())
	assert.False(t, j.Active())
	assert.Zero(t, j.Source())
	assert.Zero(t, j.Destination())
	assert.Empty(t, j.Remaining())
	assert.False(t, j.CurrentLegEndsOutsideOriginZone())
	assert.Zero(t, j.PathID())
}

func TestRouteFormatParse(t *testing.T) {
	t.Parallel()

	route := []DestinationID{4, 12, 80}
	s := FormatRoute(route)
	assert.Equal(t, "4 12 80", s)

	got, err := ParseRoute(s)
	require.NoError(t, err)
	assert.Equal(t, route, got)

	got, err = ParseRoute("  ")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, bad := range []string{"1 x", "1 0", "-3", "99999999999"} {
		_, err := ParseRoute(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
