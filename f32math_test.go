package roam

import "testing"

func TestApproxf32Equal(t *testing.T) {

	f32eqTests := []struct {
		v1, v2 float32
		want   bool // true means equal
	}{
		{1.0, 1.0, true},
		{1.0, 1.000001, true},
		{1.0, 1.00001, true},
		{1.0, 1.0001, false},
		{1.0, 1.001, false},
		{1.0, 1.01, false},
		{1.0, 0.999999, true},
		{1.0, 0.99999, true},
		{1.0, 0.9999, false},
		{1.0, 0.999, false},
		{1.0, 0.99, false},
		{0.0, 0.000001, true},
		{0.0, 0.00001, true},
		{0.0, 0.0001, false},
		{0.0, 0.001, false},
		{0.0, 0.01, false},
		{0.0, -0.000001, true},
		{0.0, -0.00001, true},
		{0.0, -0.0001, false},
		{0.0, -0.001, false},
		{0.0, -0.01, false},
		{1e12, 1e12 + 0.01, true},
		{1e12, 1e12 - 0.01, true},
		{NaN, 0, false},
		{NaN, NaN, false},
	}

	for _, tt := range f32eqTests {
		got := Approxf32Equal(tt.v1, tt.v2)
		if got != tt.want {
			t.Errorf("%f approx equals to %f, got %t, want %t", tt.v1, tt.v2, got, tt.want)
		}
	}
}

func TestILog2(t *testing.T) {
	ilog2Tests := []struct {
		v    uint32
		want uint32
	}{
		{1, 0},
		{2, 1},
		{3, 1},
		{4, 2},
		{8, 3},
		{9, 3},
		{255, 7},
		{256, 8},
		{65536, 16},
	}
	for _, tt := range ilog2Tests {
		if got := iLog2(tt.v); got != tt.want {
			t.Errorf("iLog2(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestIAbsIMin(t *testing.T) {
	if iAbs(-3) != 3 || iAbs(3) != 3 || iAbs(0) != 0 {
		t.Error("iAbs")
	}
	if iMin(2, 5) != 2 || iMin(5, 2) != 2 {
		t.Error("iMin")
	}
}
