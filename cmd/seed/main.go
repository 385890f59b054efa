// Command main runs the database seeder for Socialnet.
package main

import (
	"flag"
	"log"

	"socialnet/internal/config"
	"socialnet/internal/database"
	"socialnet/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	perPost := flag.Int("comments", 5, "Max comments per post")
	disabled := flag.Float64("disabled", 0.05, "Fraction of posts hidden from readers")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	planPath := flag.String("plan", "", "Apply a YAML seeding plan instead of flags")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *planPath != "" {
		log.Printf("Applying plan: %s (ignoring other flags)\n", *planPath)
	} else {
		log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.SeedOptions{DryRun: *dryRun})

	if *planPath != "" {
		plan, err := seed.LoadPlan(*planPath)
		if err != nil {
			log.Fatalf("❌ Plan load failed: %v", err)
		}
		if err := s.ApplyPlan(plan); err != nil {
			log.Fatalf("❌ Plan seeding failed: %v", err)
		}
	} else {
		if err := s.Seed(seed.Options{
			NumUsers:        *numUsers,
			NumPosts:        *numPosts,
			CommentsPerPost: *perPost,
			DisabledRatio:   *disabled,
			ShouldClean:     *shouldClean,
		}); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
