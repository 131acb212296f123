package main

import (
	"os"

	"github.com/dokzlo13/pagestore/cmd/pagestore/commands"
)

// Version information - set during build
var version = "dev"

func main() {
	root := commands.NewRootCmd(version)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
