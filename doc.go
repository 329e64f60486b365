// Package roam implements the core of a real-time terrain level-of-detail
// engine based on the ROAM algorithm (Real-time Optimally Adapting Meshes).
//
// Given a square heightmap and a moving viewpoint, a TerrainPatch produces,
// once per frame, a view-dependent triangulation of the terrain surface that
// respects a configurable screen-space error budget while guaranteeing a
// crack-free mesh between neighboring triangles of different subdivision
// depth.
//
// The general per-frame pipeline is as follows:
//
//   - Load and normalize a Heightmap. (E.g. ReadHeightmap)
//   - Create a TerrainPatch over it and build its variance trees once.
//     (E.g. ComputeVariance)
//   - Each frame: Reset, Tessellate with the current view position and
//     error margin, then read the triangle list with GetTessellation.
//
// Tessellation never allocates: BTT nodes come from a fixed-size triangle
// pool that is rewound in bulk at every Reset. When the pool runs out the
// frame degrades gracefully and the condition is observable through the
// patch status flags.
package roam
