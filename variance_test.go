package roam

import (
	"math/rand"
	"testing"

	"github.com/arl/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPatch builds a patch over hm with the given settings overrides.
func newTestPatch(t *testing.T, hm *Heightmap, poolSize int) *TerrainPatch {
	s := NewSettings()
	if poolSize != 0 {
		s.PoolSize = poolSize
	}
	p, err := NewTerrainPatch(hm, 0, 0, s, nil)
	check(t, err)
	return p
}

// roughHeightmap returns a deterministic pseudo-random w×h map, normalized.
func roughHeightmap(t *testing.T, w, h int) *Heightmap {
	rng := rand.New(rand.NewSource(42))
	hm := buildHeightmap(t, w, h, func(x, y int) float32 {
		return rng.Float32()
	})
	hm.Normalize()
	return hm
}

func TestComputeVarianceFlat(t *testing.T) {
	p := newTestPatch(t, flat3x3(t), 0)
	check(t, p.ComputeVariance(2))

	for i, v := range p.leftVariance {
		if v != 0 {
			t.Fatalf("left variance[%d] = %f on a flat map", i, v)
		}
	}
	for i, v := range p.rightVariance {
		if v != 0 {
			t.Fatalf("right variance[%d] = %f on a flat map", i, v)
		}
	}
}

func TestComputeVarianceSpike(t *testing.T) {
	p := newTestPatch(t, spike3x3(t), 0)
	check(t, p.ComputeVariance(2))

	// collapsing either root to its hypotenuse commits half the spike
	assert.Equal(t, float32(0.5), p.leftVariance[1])
	assert.Equal(t, float32(0.5), p.rightVariance[1])
}

func TestVarianceMonotonicity(t *testing.T) {
	p := newTestPatch(t, roughHeightmap(t, 9, 9), 0)
	check(t, p.ComputeVariance(4))

	for _, tree := range [][]float32{p.leftVariance, p.rightVariance} {
		for i := 1; 2*i+1 < len(tree); i++ {
			if tree[i] < tree[2*i] || tree[i] < tree[2*i+1] {
				t.Fatalf("variance[%d] = %f is below its children (%f, %f)",
					i, tree[i], tree[2*i], tree[2*i+1])
			}
		}
	}
}

// checkVarianceLeaves walks the variance tree coordinates down to the leaf
// level and verifies each leaf holds the midpoint-collapse error of its own
// triangle.
func checkVarianceLeaves(t *testing.T, hm *Heightmap, tree []float32,
	maxLevels, level, idx, leftX, leftY, rightX, rightY, apexX, apexY int) {

	centerX := (leftX + rightX) / 2
	centerY := (leftY + rightY) / 2

	if level == maxLevels {
		want := math32.Abs(hm.Get(centerX, centerY) - (hm.Get(leftX, leftY)+hm.Get(rightX, rightY))/2)
		if got := tree[idx]; got != want {
			t.Fatalf("leaf variance[%d] = %f, want %f (triangle (%d,%d)-(%d,%d)-(%d,%d))",
				idx, got, want, leftX, leftY, rightX, rightY, apexX, apexY)
		}
		return
	}
	checkVarianceLeaves(t, hm, tree, maxLevels, level+1, 2*idx,
		apexX, apexY, leftX, leftY, centerX, centerY)
	checkVarianceLeaves(t, hm, tree, maxLevels, level+1, 2*idx+1,
		rightX, rightY, apexX, apexY, centerX, centerY)
}

func TestVarianceLeafValues(t *testing.T) {
	hm := roughHeightmap(t, 9, 9)
	p := newTestPatch(t, hm, 0)

	const levels = 4
	check(t, p.ComputeVariance(levels))

	w, h := hm.Width(), hm.Height()
	checkVarianceLeaves(t, hm, p.leftVariance, levels, 0, 1,
		0, h-1, w-1, 0, 0, 0)
	checkVarianceLeaves(t, hm, p.rightVariance, levels, 0, 1,
		w-1, 0, 0, h-1, w-1, h-1)
}

func TestComputeVarianceDeterminism(t *testing.T) {
	hm := roughHeightmap(t, 9, 9)

	p1 := newTestPatch(t, hm, 0)
	p2 := newTestPatch(t, hm, 0)
	check(t, p1.ComputeVariance(4))
	check(t, p2.ComputeVariance(4))

	require.Equal(t, p1.leftVariance, p2.leftVariance)
	require.Equal(t, p1.rightVariance, p2.rightVariance)

	// recomputing on the same patch is idempotent
	check(t, p1.ComputeVariance(4))
	require.Equal(t, p1.leftVariance, p2.leftVariance)
	require.Equal(t, p1.rightVariance, p2.rightVariance)
}

func TestComputeVarianceClampsLevels(t *testing.T) {
	ctx := NewBuildContext(true)
	p, err := NewTerrainPatch(ramp9x9(t), 0, 0, NewSettings(), ctx)
	check(t, err)

	// a 9x9 grid bisects down to 2*log2(8) = 6 levels
	check(t, p.ComputeVariance(30))
	assert.Equal(t, 2<<6, len(p.leftVariance))
	assert.NotZero(t, ctx.LogCount(), "clamping should log a warning")
}

func TestComputeVarianceInvalidLevels(t *testing.T) {
	p := newTestPatch(t, ramp9x9(t), 0)
	err := p.ComputeVariance(0)
	require.Error(t, err)

	var status Status
	require.ErrorAs(t, err, &status)
	assert.True(t, StatusDetail(status, InvalidParam))
}
