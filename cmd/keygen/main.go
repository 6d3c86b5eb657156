package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/rota-api-go/internal/config"
	"github.com/arnavshah/rota-api-go/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: keygen <userID>")
		os.Exit(1)
	}

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.APIMasterSecret == "" {
		fmt.Fprintln(os.Stderr, "error: API_MASTER_SECRET is not set")
		os.Exit(1)
	}

	userID := os.Args[1]
	key := auth.New(cfg.Auth, nil).GenerateHMACKey(userID)
	fmt.Printf("Generated key for %s:\n%s\n", userID, key)
}
