// Command seed loads demo users and videos into the configured database.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/aussiebroadwan/reelgate/internal/auth/app"
	"github.com/aussiebroadwan/reelgate/pkg/slogx"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file; environment variables take precedence")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slogx.New(slogx.Config{
		Service: "reelgate-seed",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  "text",
	})

	if err := app.Seed(context.Background(), cfg, logger); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	logger.Info("database seeded")
}
