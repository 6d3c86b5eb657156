package main

import (
	"os"

	"github.com/arnavshah/rota-api-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
