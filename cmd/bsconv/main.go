package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/cmd/bsconv/commands"
)

func main() {
	rootCmd := commands.NewRootCommand(commands.OpenServices)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, commands.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
