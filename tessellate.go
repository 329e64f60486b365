package roam

import (
	assert "github.com/arl/assertgo"
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/math32"
)

// clampDistance applies the patch distance clamping policy.
func (p *TerrainPatch) clampDistance(d float32) float32 {
	if p.clamp == ClampNear {
		return math32.Min(d, 1)
	}
	return math32.Max(d, 1)
}

// tessellateRecursive refines the subtree of node, whose triangle is given
// by its three vertices in grid coordinates and whose precomputed variance
// lives at tree[idx].
//
// Recursion stops when the variance tree is exhausted, when the distance
// scaled variance fits the error margin, or when the triangle hypotenuse
// spans less than 3 grid units on both axes.
func (p *TerrainPatch) tessellateRecursive(
	node NodeIndex, view d3.Vec3, errorMargin float32,
	leftX, leftY, rightX, rightY, apexX, apexY int,
	tree []float32, idx int) {

	if idx >= len(tree) {
		return
	}

	centerX := float32(leftX+rightX) * 0.5
	centerY := float32(leftY+rightY) * 0.5

	a := centerX/float32(p.hm.Width()) - view.X()
	b := centerY/float32(p.hm.Height()) - view.Y()
	distance := math32.Sqrt(a*a + b*b)
	variance := tree[idx] / p.clampDistance(distance)

	if variance <= errorMargin {
		return
	}

	p.split(node)

	n := p.pool.node(node)
	if n.LeftChild != nullIdx &&
		(iAbs(leftX-rightX) >= 3 || iAbs(leftY-rightY) >= 3) {

		cx := (leftX + rightX) / 2
		cy := (leftY + rightY) / 2
		p.tessellateRecursive(
			n.LeftChild, view, errorMargin,
			apexX, apexY, leftX, leftY, cx, cy,
			tree, idx<<1)
		p.tessellateRecursive(
			n.RightChild, view, errorMargin,
			rightX, rightY, apexX, apexY, cx, cy,
			tree, idx<<1|1)
	}
}

// split bisects node, wiring the two new children into the neighbor graph
// so that the mesh stays free of T-junctions.
//
// Splitting rules:
//
//  1. The node is part of a diamond - split the node and stitch the four
//     inner edges with its base neighbor's children.
//  2. The node is on the edge of the mesh - trivial, only split the node.
//  3. The node is not part of a diamond - force split the base neighbor
//     first.
//
// split is idempotent. When the pool cannot supply both children the node
// stays a leaf and the PoolExhausted detail is set; a base neighbor already
// force-split and a child slot already taken from the pool are kept.
func (p *TerrainPatch) split(ni NodeIndex) {
	node := p.pool.node(ni)
	if node.LeftChild != nullIdx {
		return
	}

	// force-split the base neighbor until it forms a diamond with node
	if node.BaseNeighbor != nullIdx && p.pool.node(node.BaseNeighbor).BaseNeighbor != ni {
		p.split(node.BaseNeighbor)
	}

	left := p.pool.allocate()
	right := p.pool.allocate()
	if left == nullIdx || right == nullIdx {
		p.reportExhausted()
		return
	}
	node.LeftChild, node.RightChild = left, right

	lc := p.pool.node(left)
	rc := p.pool.node(right)

	lc.BaseNeighbor = node.LeftNeighbor
	lc.LeftNeighbor = right

	rc.BaseNeighbor = node.RightNeighbor
	rc.RightNeighbor = left

	// link the left neighbor to the new left child
	if node.LeftNeighbor != nullIdx {
		ln := p.pool.node(node.LeftNeighbor)
		switch ni {
		case ln.BaseNeighbor:
			ln.BaseNeighbor = left
		case ln.LeftNeighbor:
			ln.LeftNeighbor = left
		case ln.RightNeighbor:
			ln.RightNeighbor = left
		default:
			assert.True(false, "left neighbor %d does not link back to %d", node.LeftNeighbor, ni)
		}
	}

	// link the right neighbor to the new right child
	if node.RightNeighbor != nullIdx {
		rn := p.pool.node(node.RightNeighbor)
		switch ni {
		case rn.BaseNeighbor:
			rn.BaseNeighbor = right
		case rn.LeftNeighbor:
			rn.LeftNeighbor = right
		case rn.RightNeighbor:
			rn.RightNeighbor = right
		default:
			assert.True(false, "right neighbor %d does not link back to %d", node.RightNeighbor, ni)
		}
	}

	// link the base neighbor's children to the new children
	if node.BaseNeighbor != nullIdx {
		bn := p.pool.node(node.BaseNeighbor)
		if bn.LeftChild != nullIdx {
			p.pool.node(bn.LeftChild).RightNeighbor = right
			p.pool.node(bn.RightChild).LeftNeighbor = left
			lc.RightNeighbor = bn.RightChild
			rc.LeftNeighbor = bn.LeftChild
		} else {
			p.split(node.BaseNeighbor)
		}
	} else {
		// edge triangle
		lc.RightNeighbor = nullIdx
		rc.LeftNeighbor = nullIdx
	}
}

// reportExhausted records pool exhaustion on the patch status, warning at
// most once per frame.
func (p *TerrainPatch) reportExhausted() {
	if !StatusDetail(p.status, PoolExhausted) {
		p.ctx.Warningf("triangle pool exhausted (%d nodes), tessellation degraded", p.pool.capacity())
	}
	p.status |= PoolExhausted
}

// GetTessellation reads the current triangle list into the three caller
// provided buffers, each of which must hold at least 9*LeafCount() floats.
//
// Per leaf the three vertices are emitted in (left, right, apex) order:
// positions as (x/W, y/H, height), colors as plain white, normals from the
// heightmap normal field or vertical when the field is absent.
func (p *TerrainPatch) GetTessellation(vertices, colors, normals []float32) {
	want := 9 * p.LeafCount()
	assert.True(len(vertices) >= want, "vertices buffer too small: %d, want %d", len(vertices), want)
	assert.True(len(colors) >= want, "colors buffer too small: %d, want %d", len(colors), want)
	assert.True(len(normals) >= want, "normals buffer too small: %d, want %d", len(normals), want)

	p.ctx.StartTimer(TimerEmit)
	defer p.ctx.StopTimer(TimerEmit)

	w, h := p.hm.Width(), p.hm.Height()

	idx := 0
	p.getTessellationRecursive(
		leftRootIdx, vertices, colors, normals, &idx,
		0, h-1,
		w-1, 0,
		0, 0)
	p.getTessellationRecursive(
		rightRootIdx, vertices, colors, normals, &idx,
		w-1, 0,
		0, h-1,
		w-1, h-1)
}

func (p *TerrainPatch) getTessellationRecursive(
	node NodeIndex, vertices, colors, normals []float32, idx *int,
	leftX, leftY, rightX, rightY, apexX, apexY int) {

	n := p.pool.node(node)
	if n.LeftChild != nullIdx {
		centerX := (leftX + rightX) / 2
		centerY := (leftY + rightY) / 2

		p.getTessellationRecursive(
			n.LeftChild, vertices, colors, normals, idx,
			apexX, apexY, leftX, leftY, centerX, centerY)
		p.getTessellationRecursive(
			n.RightChild, vertices, colors, normals, idx,
			rightX, rightY, apexX, apexY, centerX, centerY)
		return
	}

	// leaf
	w := float32(p.hm.Width())
	h := float32(p.hm.Height())

	vertices[*idx+0] = float32(leftX) / w
	vertices[*idx+1] = float32(leftY) / h
	vertices[*idx+2] = p.hm.Get(leftX, leftY)
	vertices[*idx+3] = float32(rightX) / w
	vertices[*idx+4] = float32(rightY) / h
	vertices[*idx+5] = p.hm.Get(rightX, rightY)
	vertices[*idx+6] = float32(apexX) / w
	vertices[*idx+7] = float32(apexY) / h
	vertices[*idx+8] = p.hm.Get(apexX, apexY)

	for i := 0; i < 9; i++ {
		colors[*idx+i] = 1
	}

	normals[*idx+0], normals[*idx+1], normals[*idx+2] = p.hm.Normal(leftX, leftY)
	normals[*idx+3], normals[*idx+4], normals[*idx+5] = p.hm.Normal(rightX, rightY)
	normals[*idx+6], normals[*idx+7], normals[*idx+8] = p.hm.Normal(apexX, apexY)

	*idx += 9
}
