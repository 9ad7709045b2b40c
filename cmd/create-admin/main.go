// Command create-admin bootstraps the first ADMIN account from the
// command line, for installs that never expose the bootstrap endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"famshare/internal/common"
	"famshare/internal/config"
	"famshare/internal/dbmysql"
	"famshare/internal/user"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -name NAME -email EMAIL -password PASSWORD")
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := dbmysql.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	svc := user.NewAuthService(user.NewUserRepository(db), common.NewTokenManager(cfg))
	resp, err := svc.BootstrapAdmin(context.Background(), *name, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Created admin %s (id=%d)\n", resp.User.Email, resp.User.ID)
}
