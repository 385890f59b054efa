// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"socialnet/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	ShouldClean     bool
	// DisabledRatio is the fraction of posts hidden from readers, 0..1.
	DisabledRatio float64
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts SeedOptions) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded data and resets identity sequences.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, posts, profiles, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := s.createPosts(users, opts.NumPosts, opts.DisabledRatio)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := s.createComments(users, posts, opts.CommentsPerPost); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func (s *Seeder) createUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a few well-known accounts for consistent local logins
	if count >= 3 {
		base := []struct{ first, last, email string }{
			{"Admin", "User", "admin@example.com"},
			{"Demo", "User", "demo@example.com"},
			{"Test", "User", "test@example.com"},
		}
		for _, b := range base {
			user, err := s.factory.CreateUser(func(u *models.User) {
				u.FirstName = b.first
				u.LastName = b.last
				u.Email = b.email
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func (s *Seeder) createPosts(users []*models.User, count int, disabledRatio float64) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.factory.rng.Intn(len(users))]

		post := s.factory.BuildPost(user, func(p *models.Post) {
			if disabledRatio > 0 && s.factory.rng.Float64() < disabledRatio {
				p.IsDisable = true
			}
		})
		posts = append(posts, post)
	}

	// chunked batch insert
	const chunk = 100
	for start := 0; start < len(posts); start += chunk {
		end := start + chunk
		if end > len(posts) {
			end = len(posts)
		}
		if err := s.factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
		log.Printf("Created %d posts...", end)
	}

	return posts, nil
}

func (s *Seeder) createComments(users []*models.User, posts []*models.Post, perPost int) error {
	if perPost <= 0 {
		return nil
	}

	total := 0
	for _, post := range posts {
		n := s.factory.rng.Intn(perPost + 1)
		for i := 0; i < n; i++ {
			user := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, post); err != nil {
				return err
			}
			total++
		}
	}

	log.Printf("✓ %d comments created", total)
	return nil
}
