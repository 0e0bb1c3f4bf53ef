package main

import (
	"log"

	approuters "github.com/anishverma926/Chat-App/internal/app_routers"
	"github.com/anishverma926/Chat-App/internal/configuration"
)

func main() {
	container, err := configuration.BuildContainer()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// Ensure cleanup on shutdown
	defer container.Close()

	// Setup routers
	approuters.StartServer(container)
}
