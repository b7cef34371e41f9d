// Command main runs the database seeder for Shayari Hub.
package main

import (
	"context"
	"flag"
	"log"

	"shayarihub/internal/bootstrap"
	"shayarihub/internal/config"
	"shayarihub/internal/repository"
	"shayarihub/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numShayaris := flag.Int("shayaris", 100, "Number of shayaris to create")
	maxLikes := flag.Int("max-likes", 10, "Maximum likes per public shayari")
	maxDays := flag.Int("days", 90, "Spread creation dates over this many days")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a YAML preset file instead of random data")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *preset != "" {
		log.Printf("Applying preset: %s (ignoring size flags)\n", *preset)
	} else {
		log.Printf("Target: %d users, %d shayaris, clean=%v\n", *numUsers, *numShayaris, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipOptional: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer rt.Close(ctx)

	s, err := seed.NewSeeder(rt.DB, *maxDays)
	if err != nil {
		log.Fatalf("❌ Seeder setup failed: %v", err)
	}

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if *preset != "" {
		p, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("❌ Preset invalid: %v", err)
		}
		if err := s.ApplyPreset(p); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	} else {
		opts := seed.Options{NumUsers: *numUsers, NumShayaris: *numShayaris, MaxLikesPerShayari: *maxLikes}
		if _, _, err := s.SeedRandom(opts); err != nil {
			log.Fatalf("❌ Random seeding failed: %v", err)
		}
	}

	// Recreate the configured super admin if the clean pass removed it.
	if err := bootstrap.EnsureSuperAdmin(ctx, cfg, repository.NewUserRepository(rt.DB)); err != nil {
		log.Fatalf("❌ Super admin bootstrap failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Printf("📧 All seeded users have the password: %s\n", seed.DefaultPassword)
}
