package main

import (
	"fmt"
	"os"

	"batcli/internal/cmd"
	"batcli/internal/infrastructure"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	err := rootCmd.Execute()
	infrastructure.CloseLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
