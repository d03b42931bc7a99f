package main

import (
	"log"
	"os"

	"github.com/ichbintonywu/transaction-processor/config"
	"github.com/ichbintonywu/transaction-processor/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Config
	if _, err := os.Stat(".env"); err == nil {
		err = godotenv.Load()
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}

	cfg, err := config.NewGenerator()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.RunGenerator(cfg)
}
