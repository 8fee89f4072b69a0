package kernel

import (
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLDrawRoundTrip(t *testing.T) {
	in := [12]float64{10, 20, 30, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	m := FromLDraw(in)
	assert.Equal(t, in, m.LDraw())
	for j, want := range []float64{0, 0, 0, 1} {
		assert.Equal(t, want, m.At(3, j))
	}
	assert.Equal(t, 10.0, m.At(0, 3))
	assert.Equal(t, 4.0, m.At(1, 0))
}

func TestFromLDrawMatchesSdfxLayout(t *testing.T) {
	m := FromLDraw([12]float64{10, 20, 30, 1, 0, 0, 0, 1, 0, 0, 0, 1})
	assert.Equal(t, sdf.Translate3d(v3.Vec{X: 10, Y: 20, Z: 30}), sdf.M44(m))
	assert.Equal(t, Translate(v3.Vec{X: 10, Y: 20, Z: 30}), m)
}

func TestMulPositionAppliesBlockThenTranslation(t *testing.T) {
	// 90 degrees about Y, then move by (5, 0, 0).
	m := FromLDraw([12]float64{5, 0, 0, 0, 0, 1, 0, 1, 0, -1, 0, 0})
	got := m.MulPosition(v3.Vec{X: 1, Y: 0, Z: 0})
	assert.InDelta(t, 5, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)
	assert.InDelta(t, -1, got.Z, 1e-12)
}

func TestMulComposesRightToLeft(t *testing.T) {
	move := FromLDraw([12]float64{1, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1})
	grow := Scale(2)
	p := v3.Vec{X: 1, Y: 1, Z: 1}

	assert.Equal(t, v3.Vec{X: 3, Y: 2, Z: 2}, move.Mul(grow).MulPosition(p))
	assert.Equal(t, v3.Vec{X: 4, Y: 2, Z: 2}, grow.Mul(move).MulPosition(p))
	assert.Equal(t, Identity(), Identity().Mul(Identity()))
}

func TestDeterminant(t *testing.T) {
	assert.Equal(t, 1.0, Identity().Determinant())
	assert.Equal(t, 8.0, Scale(2).Determinant())
	assert.Equal(t, 6.0, FromLDraw([12]float64{7, 8, 9, 1, 0, 0, 0, 2, 0, 0, 0, 3}).Determinant())
	mirror := FromLDraw([12]float64{0, 0, 0, -1, 0, 0, 0, 1, 0, 0, 0, 1})
	require.Less(t, mirror.Determinant(), 0.0)
}
