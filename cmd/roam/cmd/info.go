package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	roam "github.com/arl/go-roam"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info HEIGHTMAP",
	Short: "show info about a heightmap file",
	Long: `Read the heightmap file, normalize it and print its dimensions, its
height histogram and the variance tree summary of the terrain patch built
over it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hm, err := readHeightmap(args[0])
		check(err)
		fmt.Println(hm)

		ctx := roam.NewBuildContext(true)
		patch, err := roam.NewTerrainPatch(hm, 0, 0, roam.NewSettings(), ctx)
		check(err)
		check(patch.ComputeVariance(levelVal))

		fmt.Println(patch)
		ctx.DumpLog("variance build log for %s:", args[0])
	},
}

var levelVal int

func init() {
	RootCmd.AddCommand(infoCmd)

	infoCmd.Flags().IntVar(&levelVal, "level", roam.NewSettings().MaxTessellationLevels, "max tessellation levels")
}
