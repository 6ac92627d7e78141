package main

import (
	"fmt"
	"log"
	"os"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/startup"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/security"
)

func main() {
	// featured hash-password <password> prints a bcrypt hash for ADMIN_PASSWORD
	if len(os.Args) == 3 && os.Args[1] == "hash-password" {
		hashed, err := security.HashPassword(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hashed)
		return
	}

	if err := startup.Initialize(); err != nil {
		log.Fatalf("Application startup failed: %v", err)
	}

	log.Println("Application has shut down gracefully.")
}
