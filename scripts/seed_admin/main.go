// Command seed_admin creates or resets an application user directly in the
// database. Intended for first-run provisioning and recovering locked-out
// deployments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/kantah-go/arsip-vital-api/pkg/config"
	"github.com/kantah-go/arsip-vital-api/pkg/database"
)

func main() {
	var (
		username string
		password string
		fullName string
		role     string
	)

	flag.StringVar(&username, "username", "admin", "login username")
	flag.StringVar(&password, "password", "", "initial password (required)")
	flag.StringVar(&fullName, "full-name", "Administrator", "display name")
	flag.StringVar(&role, "role", "ADMIN", "user role: ADMIN or STAFF")
	flag.Parse()

	if password == "" {
		log.Fatal("password is required")
	}
	if role != "ADMIN" && role != "STAFF" {
		log.Fatalf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, full_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
		ON CONFLICT (username)
		DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, active = TRUE, updated_at = EXCLUDED.updated_at`,
		uuid.NewString(), username, string(hash), fullName, role, now)
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	rows, _ := result.RowsAffected()
	fmt.Printf("user %q provisioned (%d row)\n", username, rows)
}
