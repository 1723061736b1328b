package main

import (
	"context"
	"flag"
	"log"

	"github.com/anime-shed/card-inspector-go/internal/config"
	"github.com/anime-shed/card-inspector-go/internal/container"
	"github.com/anime-shed/card-inspector-go/internal/logger"
	"github.com/anime-shed/card-inspector-go/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize dependency injection container
	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer c.Close()

	if err := transport.Serve(context.Background(), cfg, c.Handler()); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
