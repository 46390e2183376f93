package main

import (
	"os"

	"github.com/teranos/jsongen/cmd/jsongen/commands"
	"github.com/teranos/jsongen/display"
	"github.com/teranos/jsongen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		display.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
