package main

import (
	"github.com/jollygene/linemsg/cmd"

	// load packages so they can register commands
	_ "github.com/jollygene/linemsg/cmd/build"
	_ "github.com/jollygene/linemsg/cmd/send"
)

func main() {
	cmd.Run()
}
