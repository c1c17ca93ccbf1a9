package main

import (
	"log"

	"expedition_tracker/internal/config"
	"expedition_tracker/internal/logger"
	"expedition_tracker/internal/seed"
)

func main() {
	logger.Setup()
	config.InitDB()

	if err := seed.Run(config.DB); err != nil {
		log.Fatalf("seeding demo data failed: %v", err)
	}

	log.Println("✅ Demo data populated. Clear it before collecting real expedition information!")
}
