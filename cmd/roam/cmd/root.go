package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "roam",
	Short: "tessellate terrain heightmaps",
	Long: `This is the command-line application accompanying go-roam:
	- inspect terrain heightmap files,
	- run view-dependent tessellations and export the triangle list,
	- easily tweak tessellation settings (YAML files).`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
