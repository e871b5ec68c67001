package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/dotatools/roshclip/internal/cli"
)

func main() {
	// A local .env can hold ROSHCLIP_-prefixed overrides; absence is fine.
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
