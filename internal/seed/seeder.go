package seed

import (
	"fmt"
	"log"
	"os"

	"pawhaven/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seeder orchestrates demo-data creation. It composes the Factory into
// higher-level presets that resemble a real community.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded rows. Order matters: children first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"reactions", "comments", "sightings", "listings", "posts", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedCommunity creates users, forum posts with engagement, adoption listings
// and sightings. Returns the created users for further seeding.
func (s *Seeder) SeedCommunity(numUsers, numPosts int) ([]*models.User, error) {
	log.Printf("Seeding %d users...", numUsers)
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("need at least one user to seed content")
	}

	log.Printf("Seeding %d posts with engagement...", numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author, func(p *models.Post) {
			// a handful of pinned announcements
			p.Pinned = i%25 == 0
		})
		if err != nil {
			return nil, fmt.Errorf("creating post: %w", err)
		}

		for j := 0; j < s.factory.rng.Intn(8); j++ {
			liker := users[s.factory.rng.Intn(len(users))]
			if err := s.factory.CreateReaction(liker, post); err != nil {
				return nil, fmt.Errorf("creating reaction: %w", err)
			}
		}
		for j := 0; j < s.factory.rng.Intn(5); j++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	log.Println("Seeding listings and sightings...")
	for i := 0; i < numUsers/2; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		if _, err := s.factory.CreateListing(owner); err != nil {
			return nil, fmt.Errorf("creating listing: %w", err)
		}
	}
	for i := 0; i < numUsers; i++ {
		reporter := users[s.factory.rng.Intn(len(users))]
		if _, err := s.factory.CreateSighting(reporter, 40.7128, -74.0060, 14); err != nil {
			return nil, fmt.Errorf("creating sighting: %w", err)
		}
	}

	return users, nil
}

// fixtureFile is the schema of an optional YAML fixtures file. It lets a
// deployment pin specific well-known content alongside the random fill.
type fixtureFile struct {
	Users []struct {
		ID       string `yaml:"id"`
		Username string `yaml:"username"`
	} `yaml:"users"`
	Posts []struct {
		Title    string `yaml:"title"`
		Content  string `yaml:"content"`
		Category string `yaml:"category"`
		Slug     string `yaml:"slug"`
		Pinned   bool   `yaml:"pinned"`
		Author   string `yaml:"author"` // username from the users section
	} `yaml:"posts"`
}

// ApplyFixtures loads the YAML fixtures file at path and persists its rows.
func (s *Seeder) ApplyFixtures(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading fixtures: %w", err)
	}

	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return fmt.Errorf("parsing fixtures: %w", err)
	}

	byUsername := make(map[string]*models.User, len(fixtures.Users))
	for _, fu := range fixtures.Users {
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.ID = fu.ID
			u.Username = fu.Username
		})
		if err != nil {
			return fmt.Errorf("fixture user %q: %w", fu.Username, err)
		}
		byUsername[user.Username] = user
	}

	for _, fp := range fixtures.Posts {
		author, ok := byUsername[fp.Author]
		if !ok {
			return fmt.Errorf("fixture post %q references unknown author %q", fp.Title, fp.Author)
		}
		fp := fp
		_, err := s.factory.CreatePost(author, func(p *models.Post) {
			p.Title = fp.Title
			p.Content = fp.Content
			p.Category = fp.Category
			p.Pinned = fp.Pinned
			if fp.Slug != "" {
				p.Slug = &fp.Slug
			}
		})
		if err != nil {
			return fmt.Errorf("fixture post %q: %w", fp.Title, err)
		}
	}

	log.Printf("Applied fixtures: %d users, %d posts", len(fixtures.Users), len(fixtures.Posts))
	return nil
}
