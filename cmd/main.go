package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/joho/godotenv"

	"github.com/momohgodsfavour/ticketing-api/internal/server"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(".env"); err != nil {
		log.Warn("no .env file found, relying on environment")
	}

	if err := server.Start(); err != nil {
		log.WithError(err).Fatal("server failed to start")
	}
}
