package main

import (
	"flag"
	"log"

	"github.com/aussiebroadwan/reelgate/internal/auth/app"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file; environment variables take precedence")
	flag.Parse()

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
