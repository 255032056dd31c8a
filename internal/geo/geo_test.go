package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineZeroForSamePoint(t *testing.T) {
	p := Point{Latitude: -6.1754, Longitude: 106.8272}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversineSymmetric(t *testing.T) {
	a := Point{Latitude: -6.1754, Longitude: 106.8272}
	b := Point{Latitude: -7.7956, Longitude: 110.3695}
	assert.Equal(t, Haversine(a, b), Haversine(b, a))
}

func TestHaversineEquatorArcMinute(t *testing.T) {
	// 0.001 degrees of longitude at the equator is roughly 111 meters.
	origin := Point{}
	device := Point{Latitude: 0, Longitude: 0.001}

	d := Haversine(origin, device)
	assert.InDelta(t, 111.2, d, 0.5)

	assert.False(t, WithinRange(origin, device, 100))
	assert.True(t, WithinRange(origin, device, 150))
}

func TestHaversineKnownDistance(t *testing.T) {
	// Jakarta to Yogyakarta, roughly 430 km.
	jakarta := Point{Latitude: -6.1754, Longitude: 106.8272}
	yogya := Point{Latitude: -7.7956, Longitude: 110.3695}

	d := Haversine(jakarta, yogya)
	assert.InDelta(t, 430_000, d, 10_000)
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("-6.1754", "106.8272")
	require.NoError(t, err)
	assert.Equal(t, -6.1754, p.Latitude)
	assert.Equal(t, 106.8272, p.Longitude)
}

func TestParsePointRejectsGarbage(t *testing.T) {
	_, err := ParsePoint("north", "106.8272")
	assert.Error(t, err)

	_, err = ParsePoint("-6.1754", "east")
	assert.Error(t, err)
}

func TestParsePointRejectsOutOfRange(t *testing.T) {
	_, err := ParsePoint("91", "0")
	assert.Error(t, err)

	_, err = ParsePoint("0", "-181")
	assert.Error(t, err)
}
