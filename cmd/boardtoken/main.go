// Command boardtoken prints a bearer token for the board API.
package main

import (
	"flag"
	"fmt"
	"log"

	"promptboard/internal/auth"
	"promptboard/internal/config"
)

func main() {
	subject := flag.String("sub", "owner", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to AUTH_TOKEN_TTL)")
	flag.Parse()

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal("❌ AUTH_SECRET is not set")
	}
	if *ttl == 0 {
		*ttl = cfg.AuthTokenTTL
	}

	token, err := auth.NewTokens(cfg.AuthSecret, *ttl).Generate(*subject)
	if err != nil {
		log.Fatalf("❌ Failed to generate token: %v", err)
	}
	fmt.Println(token)
}
