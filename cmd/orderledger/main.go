package main

import (
	"os"

	"github.com/orderledger-dev/orderledger/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
