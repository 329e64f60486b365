package main

import "github.com/arl/go-roam/cmd/roam/cmd"

func main() {
	cmd.Execute()
}
