package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/database"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds the local database with dummy completed matches, for eyeballing
// list views and load-testing queries.
func main() {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	db, teardown, err := database.InitDB("scorebook.db", "", "", "./migrations")
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	const numMatches = 200
	opponents := []string{"Northfield CC", "Riverside CC", "Oakwood CC", "Hilltop CC"}

	startTime := time.Now()
	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	now := time.Now().Unix()
	for i := 0; i < numMatches; i++ {
		id := uuid.NewString()
		opponent := opponents[rand.Intn(len(opponents))]
		runsA := 80 + rand.Intn(120)
		runsB := 80 + rand.Intn(120)
		result := fmt.Sprintf("Our XI won by %d run(s)", runsA-runsB)
		if runsB > runsA {
			result = fmt.Sprintf("%s won by %d wicket(s)", opponent, 1+rand.Intn(9))
		}

		_, err := tx.Exec(`INSERT INTO matches (id, team_a_name, team_b_name, total_overs, venue, status, result_summary, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'completed', ?, ?, ?)`,
			id, "Our XI", opponent, 20, "Village Green", result, now-int64(i*86400), now-int64(i*86400))
		if err != nil {
			log.Fatalf("Failed to insert dummy match: %s", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed transaction: %s", err)
	}
	log.Info("Seeding complete", "matches", numMatches, "duration", time.Since(startTime))
}
