package seed

import (
	"fmt"
	"log"
	"os"

	"socialnet/internal/models"

	"gopkg.in/yaml.v3"
)

// Plan is a declarative seeding scenario loaded from a YAML file. It lets
// fixtures pin down exact accounts and posts while still filling the rest
// of the database with generated data.
type Plan struct {
	Clean           bool          `yaml:"clean"`
	Users           int           `yaml:"users"`
	Posts           int           `yaml:"posts"`
	CommentsPerPost int           `yaml:"comments_per_post"`
	DisabledRatio   float64       `yaml:"disabled_ratio"`
	Accounts        []AccountPlan `yaml:"accounts"`
}

// AccountPlan pins a specific user and their posts.
type AccountPlan struct {
	FirstName string     `yaml:"first_name"`
	LastName  string     `yaml:"last_name"`
	Email     string     `yaml:"email"`
	Posts     []PostPlan `yaml:"posts"`
}

// PostPlan pins a specific post with fixed engagement counters.
type PostPlan struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Likes    int    `yaml:"likes"`
	Unlikes  int    `yaml:"unlikes"`
	Disabled bool   `yaml:"disabled"`
}

// LoadPlan reads and parses a YAML seeding plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &plan, nil
}

// ApplyPlan seeds pinned accounts first, then tops up with generated data
// per the plan's counts.
func (s *Seeder) ApplyPlan(plan *Plan) error {
	if plan.Clean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	for _, acct := range plan.Accounts {
		user, err := s.factory.CreateUser(func(u *models.User) {
			if acct.FirstName != "" {
				u.FirstName = acct.FirstName
			}
			if acct.LastName != "" {
				u.LastName = acct.LastName
			}
			if acct.Email != "" {
				u.Email = acct.Email
			}
		})
		if err != nil {
			return fmt.Errorf("create account %s: %w", acct.Email, err)
		}

		for _, pp := range acct.Posts {
			pp := pp
			if _, err := s.factory.CreatePost(user, func(p *models.Post) {
				if pp.Title != "" {
					p.Title = pp.Title
					p.Slug = ""
				}
				if pp.Content != "" {
					p.Content = pp.Content
				}
				p.LikeCount = pp.Likes
				p.UnlikeCount = pp.Unlikes
				p.Rating = p.ComputeRating()
				p.IsDisable = pp.Disabled
			}); err != nil {
				return fmt.Errorf("create post %q: %w", pp.Title, err)
			}
		}
		log.Printf("✓ pinned account %s with %d posts", user.Email, len(acct.Posts))
	}

	if plan.Users > 0 || plan.Posts > 0 {
		return s.Seed(Options{
			NumUsers:        plan.Users,
			NumPosts:        plan.Posts,
			CommentsPerPost: plan.CommentsPerPost,
			DisabledRatio:   plan.DisabledRatio,
			ShouldClean:     false,
		})
	}
	return nil
}
