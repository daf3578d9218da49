package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Arabx-yung/trade-bot/internal/cli"
)

func main() {
	// A local .env is optional; environment beats config file either way.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
