// Command main runs the database seeder for PawHaven.
package main

import (
	"flag"
	"log"

	"pawhaven/internal/config"
	"pawhaven/internal/database"
	"pawhaven/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Path to a YAML fixtures file (overrides config)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	fixturePath := *fixtures
	if fixturePath == "" {
		fixturePath = cfg.SeedFixtures
	}
	if fixturePath != "" {
		if err := s.ApplyFixtures(fixturePath); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	}

	if _, err := s.SeedCommunity(*numUsers, *numPosts); err != nil {
		log.Fatalf("Community seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
}
