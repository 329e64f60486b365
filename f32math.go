package roam

import (
	"math"

	"github.com/arl/math32"
)

var (
	Epsilon32 float32
	NaN       float32
)

func init() {
	Epsilon32 = math.Nextafter32(1, 2) - 1
	NaN = float32(math.NaN())
}

func Approxf32Equal(v1, v2 float32) bool {
	eps := Epsilon32 * 100
	return math32.Abs(v1-v2) < eps*(1.0+math32.Max(math32.Abs(v1), math32.Abs(v2)))
}

func iAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func iMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func iLog2(v uint32) uint32 {

	boolToUInt32 := func(b bool) uint32 {
		if b {
			return 1
		}
		return 0
	}

	var r, shift uint32

	r = boolToUInt32(v > 0xffff) << 4
	v >>= r
	shift = boolToUInt32(v > 0xff) << 3
	v >>= shift
	r |= shift
	shift = boolToUInt32(v > 0xf) << 2
	v >>= shift
	r |= shift
	shift = boolToUInt32(v > 0x3) << 1
	v >>= shift
	r |= shift
	r |= (v >> 1)
	return r
}
