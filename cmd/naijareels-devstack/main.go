package main

import (
	"log"

	"github.com/NaijaReels/naijareels-go/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Fatalf("Devstack startup failed: %v", err)
	}

	log.Println("Devstack has shut down gracefully.")
}
