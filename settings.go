package roam

// DistanceClamp selects how the viewer distance is clamped before it scales
// a node's variance during tessellation.
type DistanceClamp int32

const (
	// ClampFar divides the variance by max(distance, 1): triangles beyond
	// unit distance shrink in screen projection, so their variance is
	// attenuated accordingly. This is the default.
	ClampFar DistanceClamp = iota

	// ClampNear divides the variance by min(distance, 1): the variance of
	// triangles beyond unit distance is left unattenuated, and that of
	// triangles closer than unit distance is amplified.
	ClampNear
)

// Settings contains the construction parameters of a TerrainPatch.
type Settings struct {
	// PoolSize is the capacity of the triangle pool, in nodes. It bounds
	// the per-frame tessellation work.
	PoolSize int `yaml:"poolSize"`

	// MaxTessellationLevels is the maximum subdivision depth, and fixes
	// the variance tree size. It is clamped to the bisection capacity of
	// the heightmap grid.
	MaxTessellationLevels int `yaml:"maxTessellationLevels"`

	// ErrorMargin is the screen-space error budget the roam CLI passes to
	// Tessellate. NewTerrainPatch does not read it: Tessellate always takes
	// its error margin as an argument.
	ErrorMargin float32 `yaml:"errorMargin"`

	// DistanceClamp selects the distance clamping policy, ClampFar (0) or
	// ClampNear (1).
	DistanceClamp DistanceClamp `yaml:"distanceClamp"`
}

// NewSettings returns a Settings struct filled with default values.
func NewSettings() Settings {
	return Settings{
		PoolSize:              100000,
		MaxTessellationLevels: 14,
		ErrorMargin:           float32(0.025),
		DistanceClamp:         ClampFar,
	}
}
