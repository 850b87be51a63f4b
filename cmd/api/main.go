package main

import (
	"context"
	"log"

	"corebank/internal/bootstrap"
	"corebank/internal/logging"
)

func main() {
	container, err := bootstrap.New(context.Background(), bootstrap.NoopDirectory{})
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	logging.Info("corebank api initialized successfully", map[string]any{
		"version": "1.0.0",
		"address": container.Config.Server.Host + ":" + container.Config.Server.Port,
	})

	if err := container.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
