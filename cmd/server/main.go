package main

import (
	"log"

	"github.com/joho/godotenv"

	"typeracer/internal/server"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	if err := server.Run(); err != nil {
		log.Fatal(err.Error())
	}
}
