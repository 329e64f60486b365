package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arl/gogeo/f32/d3"
	"github.com/spf13/cobra"

	roam "github.com/arl/go-roam"
)

// tessellateCmd represents the tessellate command
var tessellateCmd = &cobra.Command{
	Use:   "tessellate HEIGHTMAP",
	Short: "tessellate a heightmap for a given viewpoint",
	Long: `Run one reset/tessellate/emit cycle on the heightmap, for the given
view position and error margin, and report the resulting triangle count.

The view position is expressed in the patch unit domain: x and y in [0, 1]
for points above the patch. With --obj the emitted triangle list is saved
to a Wavefront OBJ file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hm, err := readHeightmap(args[0])
		check(err)
		hm.CalculateNormals()

		settings := roam.NewSettings()
		if cfgVal != "" {
			check(fileExists(cfgVal))
			check(unmarshalYAMLFile(cfgVal, &settings))
		}
		if cmd.Flags().Changed("margin") {
			settings.ErrorMargin = float32(marginVal)
		}
		if cmd.Flags().Changed("level") {
			settings.MaxTessellationLevels = tessLevelVal
		}

		view, err := parseVec3(viewVal)
		check(err)

		ctx := roam.NewBuildContext(true)
		patch, err := roam.NewTerrainPatch(hm, 0, 0, settings, ctx)
		check(err)
		check(patch.ComputeVariance(settings.MaxTessellationLevels))

		patch.Reset()
		patch.Tessellate(view, settings.ErrorMargin)

		nfloats := 9 * patch.LeafCount()
		vertices := make([]float32, nfloats)
		colors := make([]float32, nfloats)
		normals := make([]float32, nfloats)
		patch.GetTessellation(vertices, colors, normals)

		fmt.Printf("%d triangles (pool %d nodes)\n", patch.LeafCount(), patch.PoolCapacity())
		if roam.StatusDetail(patch.Status(), roam.PoolExhausted) {
			ctx.DumpLog("tessellation log for %s:", args[0])
		}

		if objVal != "" {
			check(writeOBJ(objVal, vertices, normals))
			fmt.Printf("mesh written to '%s'\n", objVal)
		}
	},
}

var (
	cfgVal       string
	marginVal    float64
	tessLevelVal int
	viewVal      string
	objVal       string
)

func init() {
	RootCmd.AddCommand(tessellateCmd)

	defaults := roam.NewSettings()
	tessellateCmd.Flags().StringVar(&cfgVal, "config", "", "tessellation settings YAML file")
	tessellateCmd.Flags().Float64Var(&marginVal, "margin", float64(defaults.ErrorMargin), "allowed error margin")
	tessellateCmd.Flags().IntVar(&tessLevelVal, "level", defaults.MaxTessellationLevels, "max tessellation levels")
	tessellateCmd.Flags().StringVar(&viewVal, "view", "0.5,0.5,0", "view position 'x,y,z'")
	tessellateCmd.Flags().StringVar(&objVal, "obj", "", "save the triangle list to a Wavefront OBJ file")
}

// parseVec3 parses a comma-separated triplet of floats.
func parseVec3(s string) (d3.Vec3, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return nil, fmt.Errorf("invalid vector '%s', want 'x,y,z'", s)
	}
	v := d3.NewVec3()
	for i, f := range fields {
		c, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component '%s'", f)
		}
		v[i] = float32(c)
	}
	return v, nil
}

// writeOBJ saves the emitted triangle list as a Wavefront OBJ file.
func writeOBJ(path string, vertices, normals []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i+2 < len(vertices); i += 3 {
		fmt.Fprintf(w, "v %f %f %f\n", vertices[i], vertices[i+1], vertices[i+2])
	}
	for i := 0; i+2 < len(normals); i += 3 {
		fmt.Fprintf(w, "vn %f %f %f\n", normals[i], normals[i+1], normals[i+2])
	}
	for i := 0; i < len(vertices)/9; i++ {
		a, b, c := 3*i+1, 3*i+2, 3*i+3
		fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}
	return w.Flush()
}
