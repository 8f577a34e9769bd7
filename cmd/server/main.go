package main

import (
	"log"

	_ "promptboard/docs"
	"promptboard/internal/config"
	"promptboard/internal/server"
)

// @title           Promptboard API
// @version         1.0
// @description     Single-user kanban board with AI implementation prompt generation.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
