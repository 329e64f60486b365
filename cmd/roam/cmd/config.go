package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	roam "github.com/arl/go-roam"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "create a tessellation settings file",
	Long: `Create a tessellation settings file in YAML format, prefilled with
default values.

If FILE is not provided, 'roam.yml' is used`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "roam.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		if ok, err := confirmIfExists(path,
			fmt.Sprintf("file name %s already exists, overwrite? [y/N]", path)); !ok {
			if err == nil {
				fmt.Println("aborted by user...")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}

		buf, err := yaml.Marshal(roam.NewSettings())
		check(err)
		check(ioutil.WriteFile(path, buf, 0644))
		fmt.Printf("tessellation settings written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
