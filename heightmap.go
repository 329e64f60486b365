package roam

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	assert "github.com/arl/assertgo"
	"github.com/arl/gogeo/f32"
	"github.com/arl/math32"
)

// normalStrength controls how much the Sobel gradient tilts computed normals
// away from the vertical axis.
const normalStrength = 32.0

// Heightmap is a read-only 2D field of height samples over a W×H grid, with
// an optional per-vertex normal field.
//
// Samples are stored row-major, row 0 first. For the subdivision algorithm
// to bottom out cleanly, W-1 and H-1 should be divisible by 2^L where L is
// the maximum tessellation level.
type Heightmap struct {
	samples []float32
	normals []float32 // 3 floats per vertex, nil until CalculateNormals

	width, height int

	minZ, maxZ float32
}

// NewHeightmap creates a heightmap of the given dimensions from row-major
// samples. It takes ownership of the slice.
func NewHeightmap(width, height int, samples []float32) (*Heightmap, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: heightmap dimensions %dx%d too small", Failure|InvalidParam, width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: got %d samples, want %d", Failure|InvalidParam, len(samples), width*height)
	}
	hm := &Heightmap{
		samples: samples,
		width:   width,
		height:  height,
		minZ:    math.MaxFloat32,
		maxZ:    -math.MaxFloat32,
	}
	for _, v := range samples {
		hm.minZ = math32.Min(hm.minZ, v)
		hm.maxZ = math32.Max(hm.maxZ, v)
	}
	return hm, nil
}

// ReadHeightmap reads a heightmap from r.
//
// The expected format is textual: two whitespace-separated unsigned integers
// give the grid dimensions W and H, followed by W×H whitespace-separated
// decimal heights in row-major order (row 0 first).
//
// The returned heightmap holds the raw values; call Normalize to bring all
// heights into [0, 1].
func ReadHeightmap(r io.Reader) (*Heightmap, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	dim := func(name string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("%w: missing %s", Failure|WrongFormat, name)
		}
		v, err := strconv.ParseUint(sc.Text(), 10, 32)
		if err != nil || v == 0 {
			return 0, fmt.Errorf("%w: bad %s '%s'", Failure|WrongFormat, name, sc.Text())
		}
		return int(v), nil
	}

	w, err := dim("width")
	if err != nil {
		return nil, err
	}
	h, err := dim("height")
	if err != nil {
		return nil, err
	}

	samples := make([]float32, w*h)
	for i := range samples {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: got %d heights, want %d", Failure|WrongFormat, i, w*h)
		}
		v, err := strconv.ParseFloat(sc.Text(), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad height '%s' at index %d", Failure|WrongFormat, sc.Text(), i)
		}
		samples[i] = float32(v)
	}

	return NewHeightmap(w, h, samples)
}

// Width returns the number of vertices along the x axis.
func (hm *Heightmap) Width() int { return hm.width }

// Height returns the number of vertices along the y axis.
func (hm *Heightmap) Height() int { return hm.height }

// MinZ returns the smallest observed height.
func (hm *Heightmap) MinZ() float32 { return hm.minZ }

// MaxZ returns the greatest observed height.
func (hm *Heightmap) MaxZ() float32 { return hm.maxZ }

// Get returns the height at grid vertex (x, y).
//
// Out of range coordinates are a programming fault.
func (hm *Heightmap) Get(x, y int) float32 {
	assert.True(x >= 0 && x < hm.width && y >= 0 && y < hm.height,
		"heightmap access out of range (%d,%d) on %dx%d grid", x, y, hm.width, hm.height)
	return hm.samples[hm.width*y+x]
}

// Normalize rescales the heightmap so that all heights are in [0, 1].
func (hm *Heightmap) Normalize() {
	if hm.maxZ == 0 {
		return
	}
	for i := range hm.samples {
		hm.samples[i] /= hm.maxZ
	}
	hm.minZ /= hm.maxZ
	hm.maxZ = 1
}

// CalculateNormals builds the per-vertex normal field.
//
// Interior normals come from a Sobel filter of the neighboring heights,
// boundary vertices get the vertical (0, 0, 1). The field is optional:
// without it Normal reports vertical normals everywhere.
func (hm *Heightmap) CalculateNormals() {
	hm.normals = make([]float32, 3*hm.width*hm.height)
	for y := 0; y < hm.height; y++ {
		for x := 0; x < hm.width; x++ {
			n := hm.normals[3*(hm.width*y+x):]
			if x == 0 || x == hm.width-1 || y == 0 || y == hm.height-1 {
				n[0], n[1], n[2] = 0, 0, 1
				continue
			}
			dx := (hm.Get(x+1, y-1) + 2*hm.Get(x+1, y) + hm.Get(x+1, y+1)) -
				(hm.Get(x-1, y-1) + 2*hm.Get(x-1, y) + hm.Get(x-1, y+1))
			dy := (hm.Get(x-1, y+1) + 2*hm.Get(x, y+1) + hm.Get(x+1, y+1)) -
				(hm.Get(x-1, y-1) + 2*hm.Get(x, y-1) + hm.Get(x+1, y-1))
			nz := float32(1.0 / normalStrength)
			s := 1 / math32.Sqrt(dx*dx+dy*dy+nz*nz)
			n[0], n[1], n[2] = dx*s, dy*s, nz*s
		}
	}
}

// HasNormals reports whether CalculateNormals has been called.
func (hm *Heightmap) HasNormals() bool { return hm.normals != nil }

// Normal returns the surface normal at grid vertex (x, y), or the vertical
// (0, 0, 1) when the normal field has not been calculated.
func (hm *Heightmap) Normal(x, y int) (nx, ny, nz float32) {
	if hm.normals == nil {
		return 0, 0, 1
	}
	assert.True(x >= 0 && x < hm.width && y >= 0 && y < hm.height,
		"heightmap normal access out of range (%d,%d) on %dx%d grid", x, y, hm.width, hm.height)
	n := hm.normals[3*(hm.width*y+x):]
	return n[0], n[1], n[2]
}

// String returns a debug dump of the heightmap: dimensions, extrema and a
// histogram of the normalized heights.
func (hm *Heightmap) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Heightmap {\n")
	fmt.Fprintf(&sb, "  %d x %d\n", hm.width, hm.height)
	fmt.Fprintf(&sb, "  first: %f\n", hm.samples[0])
	fmt.Fprintf(&sb, "  last: %f\n", hm.samples[len(hm.samples)-1])
	fmt.Fprintf(&sb, "  min: %f max: %f\n", hm.minZ, hm.maxZ)

	var histogram [11]int
	for _, v := range hm.samples {
		histogram[int(f32.Clamp(v*10, 0, 10))]++
	}

	fmt.Fprintf(&sb, "  histogram {\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "    %.1f - %.1f : %d,\n", float32(i)/10, float32(i+1)/10, histogram[i])
	}
	fmt.Fprintf(&sb, "    else      : %d,\n", histogram[10])
	fmt.Fprintf(&sb, "  }\n}")
	return sb.String()
}
