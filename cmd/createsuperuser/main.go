package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mwakyusa/parish-management/internal/config"
	"github.com/mwakyusa/parish-management/internal/database"
	"github.com/mwakyusa/parish-management/internal/repository"
)

// createsuperuser provisions an operator account from the command line.
// The server has no signup path for admins, so the first account of a
// fresh deployment is created with this tool.
func main() {
	username := flag.String("username", "", "login name for the new superuser (required)")
	email := flag.String("email", "", "email address (optional)")
	phone := flag.String("phone", "", "phone number in +255XXXXXXXXX format (required)")
	password := flag.String("password", "", "plain password (required)")
	flag.Parse()

	if *username == "" || *phone == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	id, err := users.CreateSuperuser(ctx, *username, *email, *password, *phone, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("create superuser: %v", err)
	}
	fmt.Printf("superuser %q created (id %d)\n", *username, id)
}
