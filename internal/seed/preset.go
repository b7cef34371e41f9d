package seed

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"shayarihub/internal/authz"
	"shayarihub/internal/middleware"
	"shayarihub/internal/models"

	"gopkg.in/yaml.v3"
)

// Preset is a hand-written data set loaded from YAML.
//
//	users:
//	  - username: ghalib
//	    role: admin
//	shayaris:
//	  - author: ghalib
//	    title: Dil-e-nadaan
//	    content: tujhe hua kya hai
//	    likedBy: [mir]
type Preset struct {
	Users    []PresetUser    `yaml:"users"`
	Shayaris []PresetShayari `yaml:"shayaris"`
}

// PresetUser describes one account.
type PresetUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Bio      string `yaml:"bio"`
	Banned   bool   `yaml:"banned"`
}

// PresetShayari describes one shayari and who liked it.
type PresetShayari struct {
	Author     string   `yaml:"author"`
	Title      string   `yaml:"title"`
	Content    string   `yaml:"content"`
	Visibility string   `yaml:"visibility"`
	DaysAgo    int      `yaml:"daysAgo"`
	LikedBy    []string `yaml:"likedBy"`
}

// LoadPreset reads and validates a preset file.
func LoadPreset(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return ParsePreset(raw)
}

// ParsePreset decodes YAML and checks that every reference resolves.
func ParsePreset(raw []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode preset: %w", err)
	}

	known := make(map[string]bool, len(p.Users))
	for i, u := range p.Users {
		key := models.CanonicalUsername(u.Username)
		if key == "" {
			return nil, fmt.Errorf("users[%d]: username is required", i)
		}
		if known[key] {
			return nil, fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		if u.Role != "" {
			if _, ok := authz.ParseRole(u.Role); !ok {
				return nil, fmt.Errorf("users[%d]: invalid role %q", i, u.Role)
			}
		}
		known[key] = true
	}
	for i, s := range p.Shayaris {
		if !known[models.CanonicalUsername(s.Author)] {
			return nil, fmt.Errorf("shayaris[%d]: unknown author %q", i, s.Author)
		}
		if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Content) == "" {
			return nil, fmt.Errorf("shayaris[%d]: title and content are required", i)
		}
		if s.Visibility != "" && !models.Visibility(s.Visibility).Valid() {
			return nil, fmt.Errorf("shayaris[%d]: invalid visibility %q", i, s.Visibility)
		}
		for _, name := range s.LikedBy {
			if !known[models.CanonicalUsername(name)] {
				return nil, fmt.Errorf("shayaris[%d]: unknown liker %q", i, name)
			}
		}
	}
	return &p, nil
}

// ApplyPreset inserts the preset's users, shayaris and likes.
func (s *Seeder) ApplyPreset(p *Preset) error {
	byName := make(map[string]*models.User, len(p.Users))
	for _, pu := range p.Users {
		pu := pu
		u, err := s.factory.CreateUser(func(u *models.User) {
			u.Username = strings.TrimSpace(pu.Username)
			u.Email = strings.ToLower(u.Username) + "@shayarihub.local"
			if pu.Email != "" {
				u.Email = strings.ToLower(strings.TrimSpace(pu.Email))
			}
			if pu.Role != "" {
				u.Role = models.Role(pu.Role)
			}
			if pu.Bio != "" {
				u.Bio = pu.Bio
			}
			u.IsActive = !pu.Banned
		})
		if err != nil {
			return err
		}
		byName[models.CanonicalUsername(u.Username)] = u
	}

	likes := 0
	for _, ps := range p.Shayaris {
		ps := ps
		author := byName[models.CanonicalUsername(ps.Author)]
		sh, err := s.factory.CreateShayari(author, func(sh *models.Shayari) {
			sh.Title = strings.TrimSpace(ps.Title)
			sh.Content = strings.TrimSpace(ps.Content)
			sh.Visibility = models.VisibilityPublic
			if ps.Visibility != "" {
				sh.Visibility = models.Visibility(ps.Visibility)
			}
			sh.CreatedAt = time.Now().UTC().AddDate(0, 0, -ps.DaysAgo)
			sh.UpdatedAt = sh.CreatedAt
		})
		if err != nil {
			return err
		}
		for _, name := range ps.LikedBy {
			if err := s.factory.CreateLike(byName[models.CanonicalUsername(name)], sh); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
			likes++
		}
	}

	middleware.Logger.Info("seed: preset applied",
		slog.Int("users", len(p.Users)),
		slog.Int("shayaris", len(p.Shayaris)),
		slog.Int("likes", likes))
	return nil
}
