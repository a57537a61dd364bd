package main

import (
	"log"

	"github.com/loipv/library-events-producer/app"
	"github.com/loipv/library-events-producer/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Run blocks until SIGINT or SIGTERM, then stops the HTTP server before
	// flushing the producer.
	app.New(cfg).Run()
}
