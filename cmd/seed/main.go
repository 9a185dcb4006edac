package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/eventhub-backend/config"
	"github.com/oksasatya/eventhub-backend/pkg/helpers"
)

// Seeds a demo organizer, a demo invitee, and a pending invitation so the
// API can be exercised locally without a frontend.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	organizerID := seedUser(db, "organizer", "organizer@example.com", "Demo Organizer", "Org4nizerPass")
	inviteeID := seedUser(db, "alice", "alice@example.com", "Alice", "Str0ngPass1")
	fmt.Printf("seeded users: organizer=%s alice=%s\n", organizerID, inviteeID)

	eventID := uuid.NewString()
	var guestID string
	err = db.QueryRow(`
		INSERT INTO guests (event_id, user_id, status)
		VALUES ($1, $2, 'invited')
		ON CONFLICT (event_id, user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`, eventID, inviteeID).Scan(&guestID)
	if err != nil {
		log.Fatalf("failed to seed guest: %v", err)
	}
	fmt.Printf("seeded invitation: guest=%s event=%s\n", guestID, eventID)
}

func seedUser(db *sql.DB, username, email, name, password string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, username, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", username, err)
	}
	return id
}
