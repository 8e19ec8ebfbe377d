package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanarDist_IgnoresHeight(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{3, 50, 4}
	assert.InDelta(t, 5.0, PlanarDist(a, b), 1e-9)
}

func TestPlanarDir_Degenerate(t *testing.T) {
	_, ok := PlanarDir(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 9, 1})
	assert.False(t, ok, "points stacked vertically have no planar direction")

	dir, ok := PlanarDir(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 2, 10})
	require.True(t, ok)
	assert.InDelta(t, 1.0, dir.Len(), 1e-9)
	assert.InDelta(t, 0.0, dir.Y(), 1e-9)
}

func TestYawRoundTrip(t *testing.T) {
	for _, yaw := range []float64{0, 0.5, math.Pi / 2, -2.5, math.Pi} {
		got := Yaw(YawVec(yaw))
		assert.InDelta(t, 0.0, AngleDelta(got, yaw), 1e-9, "yaw %.2f", yaw)
	}
}

func TestHeadingTo_PlusX(t *testing.T) {
	h := HeadingTo(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0})
	assert.InDelta(t, math.Pi/2, h, 1e-9)
}

func TestBearingMatchesOnCircle(t *testing.T) {
	c := mgl64.Vec3{5, 1, -3}
	for _, a := range []float64{0, 1, 2, -1.3} {
		p := OnCircle(c, a, 7)
		assert.InDelta(t, 0.0, AngleDelta(Bearing(c, p), a), 1e-9)
		assert.InDelta(t, 7.0, PlanarDist(c, p), 1e-9)
	}
}

func TestRotateY_QuarterTurn(t *testing.T) {
	v := RotateY(mgl64.Vec3{1, 2, 0}, math.Pi/2)
	assert.InDelta(t, 0.0, v.X(), 1e-9)
	assert.InDelta(t, 2.0, v.Y(), 1e-9)
	assert.InDelta(t, 1.0, v.Z(), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-9)
	assert.InDelta(t, 0.2, AngleDelta(0.1, -0.1), 1e-9)
	assert.InDelta(t, 0.2, AngleDelta(math.Pi-0.1, -math.Pi+0.1), 1e-9)
}
