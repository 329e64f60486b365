package roam

import (
	"fmt"

	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// TerrainPatch is one square region of terrain, covered by two binary
// triangle trees that share the grid's main diagonal.
//
// A patch owns its triangle pool and its two variance trees; the heightmap
// is only read and may be shared between patches. The per-frame pipeline is
// Reset, Tessellate, GetTessellation, in that order, on a single goroutine.
type TerrainPatch struct {
	hm *Heightmap

	worldX, worldY int

	// left and right variance trees
	leftVariance  []float32
	rightVariance []float32

	// number of leaves on left and right BTTs
	leftLeaves, rightLeaves int

	pool *trianglePool

	clamp  DistanceClamp
	status Status

	ctx *BuildContext
}

// NewTerrainPatch creates a patch over hm at world offset (worldX, worldY).
//
// The heightmap should already be normalized. ctx may be nil to disable
// logging and timers.
func NewTerrainPatch(hm *Heightmap, worldX, worldY int, s Settings, ctx *BuildContext) (*TerrainPatch, error) {
	if hm == nil {
		return nil, fmt.Errorf("%w: nil heightmap", Failure|InvalidParam)
	}
	if s.PoolSize < reservedNodes {
		return nil, fmt.Errorf("%w: pool size %d, need at least %d", Failure|InvalidParam, s.PoolSize, reservedNodes)
	}
	if s.DistanceClamp != ClampFar && s.DistanceClamp != ClampNear {
		return nil, fmt.Errorf("%w: unknown distance clamp %d", Failure|InvalidParam, s.DistanceClamp)
	}

	p := &TerrainPatch{
		hm:     hm,
		worldX: worldX,
		worldY: worldY,
		pool:   newTrianglePool(s.PoolSize),
		clamp:  s.DistanceClamp,
		ctx:    ctx,
	}
	p.Reset()
	return p, nil
}

// WorldX returns the patch x offset in the world.
func (p *TerrainPatch) WorldX() int { return p.worldX }

// WorldY returns the patch y offset in the world.
func (p *TerrainPatch) WorldY() int { return p.worldY }

// maxUsableLevels returns the deepest tessellation level the heightmap grid
// can be bisected to. Each pair of levels halves the triangle legs.
func (p *TerrainPatch) maxUsableLevels() int {
	side := iMin(p.hm.Width(), p.hm.Height()) - 1
	return 2 * int(iLog2(uint32(side)))
}

// ComputeVariance builds the left and right variance trees for the patch.
//
// It must be called once before the first Tessellate, and again after every
// modification of the heightmap. maxTessellationLevels bounds the
// subdivision depth; values beyond the grid's bisection capacity are
// clamped.
func (p *TerrainPatch) ComputeVariance(maxTessellationLevels int) error {
	if maxTessellationLevels < 1 {
		return fmt.Errorf("%w: max tessellation levels %d", Failure|InvalidParam, maxTessellationLevels)
	}
	if usable := p.maxUsableLevels(); maxTessellationLevels > usable {
		p.ctx.Warningf("%d tessellation levels exceed the %dx%d grid capacity, clamped to %d",
			maxTessellationLevels, p.hm.Width(), p.hm.Height(), usable)
		maxTessellationLevels = usable
	}

	p.ctx.StartTimer(TimerVariance)
	defer p.ctx.StopTimer(TimerVariance)

	size := 2 << maxTessellationLevels
	p.leftVariance = make([]float32, size)
	p.rightVariance = make([]float32, size)

	w, h := p.hm.Width(), p.hm.Height()

	p.computeVarianceRecursive(
		maxTessellationLevels, 0, p.leftVariance, 1,
		0, h-1, p.hm.Get(0, h-1),
		w-1, 0, p.hm.Get(w-1, 0),
		0, 0, p.hm.Get(0, 0))
	p.computeVarianceRecursive(
		maxTessellationLevels, 0, p.rightVariance, 1,
		w-1, 0, p.hm.Get(w-1, 0),
		0, h-1, p.hm.Get(0, h-1),
		w-1, h-1, p.hm.Get(w-1, h-1))

	p.ctx.Progressf("variance trees built, %d levels, %d entries per root", maxTessellationLevels, size)
	return nil
}

// computeVarianceRecursive fills tree[idx] with the maximum interpolation
// error committed if the subtree rooted there were collapsed to a single
// triangle: at the deepest level the midpoint-collapse error of the
// hypotenuse, above it the maximum over both children.
func (p *TerrainPatch) computeVarianceRecursive(
	maxLevels, level int, tree []float32, idx int,
	leftX, leftY int, leftZ float32,
	rightX, rightY int, rightZ float32,
	apexX, apexY int, apexZ float32) {

	centerX := (leftX + rightX) / 2
	centerY := (leftY + rightY) / 2
	centerZ := p.hm.Get(centerX, centerY)

	if level < maxLevels {
		p.computeVarianceRecursive(
			maxLevels, level+1, tree, idx<<1,
			apexX, apexY, apexZ,
			leftX, leftY, leftZ,
			centerX, centerY, centerZ)
		p.computeVarianceRecursive(
			maxLevels, level+1, tree, idx<<1|1,
			rightX, rightY, rightZ,
			apexX, apexY, apexZ,
			centerX, centerY, centerZ)

		tree[idx] = math32.Max(tree[idx<<1], tree[idx<<1|1])
	} else {
		tree[idx] = math32.Abs(centerZ - (leftZ+rightZ)*0.5)
	}
}

// Reset restores the patch to its frame-start state: both roots are leaves
// forming a diamond with each other, and the triangle pool is rewound.
func (p *TerrainPatch) Reset() {
	left := p.pool.node(leftRootIdx)
	right := p.pool.node(rightRootIdx)

	left.LeftChild, left.RightChild = nullIdx, nullIdx
	right.LeftChild, right.RightChild = nullIdx, nullIdx

	left.LeftNeighbor, left.RightNeighbor = nullIdx, nullIdx
	right.LeftNeighbor, right.RightNeighbor = nullIdx, nullIdx

	left.BaseNeighbor = rightRootIdx
	right.BaseNeighbor = leftRootIdx

	p.pool.reset()
	p.leftLeaves, p.rightLeaves = 0, 0
	p.status = Success
}

// Tessellate adaptively subdivides the patch for the given view position
// and error margin.
//
// view is expressed in the patch unit domain: x and y in [0, 1] for points
// above the patch. Requires a prior ComputeVariance. On pool exhaustion the
// mesh degrades where refinement halted and the PoolExhausted detail is set
// on the patch status.
func (p *TerrainPatch) Tessellate(view d3.Vec3, errorMargin float32) {
	if len(p.leftVariance) == 0 {
		p.status = Failure | InvalidParam
		p.ctx.Errorf("tessellate called before variance trees were computed")
		return
	}

	p.ctx.StartTimer(TimerTessellate)
	defer p.ctx.StopTimer(TimerTessellate)

	w, h := p.hm.Width(), p.hm.Height()

	p.tessellateRecursive(
		leftRootIdx, view, errorMargin,
		0, h-1,
		w-1, 0,
		0, 0,
		p.leftVariance, 1)
	p.tessellateRecursive(
		rightRootIdx, view, errorMargin,
		w-1, 0,
		0, h-1,
		w-1, h-1,
		p.rightVariance, 1)

	p.leftLeaves = p.pool.numberOfLeaves(leftRootIdx)
	p.rightLeaves = p.pool.numberOfLeaves(rightRootIdx)
}

// LeafCount returns the number of triangles in the current tessellation.
func (p *TerrainPatch) LeafCount() int {
	return p.leftLeaves + p.rightLeaves
}

// PoolCapacity returns the triangle pool capacity, in nodes.
func (p *TerrainPatch) PoolCapacity() int {
	return p.pool.capacity()
}

// Status returns the status flags of the last frame. PoolExhausted reports
// that the mesh degraded because tessellation ran out of nodes.
func (p *TerrainPatch) Status() Status {
	return p.status
}

// String returns a debug dump of the patch state.
func (p *TerrainPatch) String() string {
	return fmt.Sprintf("TerrainPatch {\n  variance_size: %d\n  pool: %d/%d\n  left_num_leaves: %d\n  right_num_leaves: %d\n}",
		len(p.leftVariance), p.pool.allocated(), p.pool.capacity(), p.leftLeaves, p.rightLeaves)
}
