// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"shayarihub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

var (
	openings = []string{
		"Dil", "Raat", "Chaand", "Ishq", "Yaadein", "Baarish", "Safar", "Khwaab",
		"Tanhai", "Mehfil", "Sitare", "Zindagi", "Intezaar", "Aansoo", "Muskurahat",
	}
	phrases = []string{
		"dil ki baat", "chaand ki roshni", "raat ka sannata", "yaadon ka safar",
		"ishq ki raah", "baarish ki boondein", "aankhon mein khwaab", "tanhai ka aalam",
		"sitaron se aage", "mehfil ki raunak", "waqt ki reet", "khamoshi ki zubaan",
		"lamhon ki kahani", "dard ki dawa", "ummeed ki kiran",
	}
	connectors = []string{"aur", "mein", "se", "ki tarah", "ke bina", "ke saath"}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db           *gorm.DB
	rng          *rand.Rand
	passwordHash string
	maxDays      int
}

// NewFactory creates a Factory bound to db. passwordHash is stored on every
// created user.
func NewFactory(db *gorm.DB, passwordHash string, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{
		db:           db,
		rng:          rand.New(rand.NewSource(seed)),
		passwordHash: passwordHash,
		maxDays:      maxDays,
	}
}

// BuildShayari returns an unsaved shayari with generated text and a
// creation time spread over the last maxDays days.
func (f *Factory) BuildShayari(author *models.User, overrides ...func(*models.Shayari)) *models.Shayari {
	s := &models.Shayari{
		Title:      f.title(),
		Content:    f.verse(2 + f.rng.Intn(3)),
		Visibility: models.VisibilityPublic,
		AuthorID:   author.ID,
		CreatedAt:  f.pastTime(),
	}
	if f.rng.Intn(10) == 0 {
		s.Visibility = models.VisibilityPrivate
	}
	s.UpdatedAt = s.CreatedAt
	for _, o := range overrides {
		o(s)
	}
	return s
}

// CreateUser inserts an active user with generated profile fields.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := f.username()
	u := &models.User{
		Username: username,
		Email:    strings.ToLower(username) + "@" + gofakeit.DomainName(),
		Password: f.passwordHash,
		Role:     models.RoleUser,
		Bio:      gofakeit.Sentence(8),
		IsActive: true,
	}
	for _, o := range overrides {
		o(u)
	}
	u.UsernameLower = models.CanonicalUsername(u.Username)
	// Create writes the column default back over a false IsActive.
	active := u.IsActive
	if err := f.db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", u.Username, err)
	}
	if !active {
		if err := f.db.Model(u).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("ban user %s: %w", u.Username, err)
		}
		u.IsActive = false
	}
	return u, nil
}

// CreateShayari builds and inserts a shayari for author.
func (f *Factory) CreateShayari(author *models.User, overrides ...func(*models.Shayari)) (*models.Shayari, error) {
	s := f.BuildShayari(author, overrides...)
	if err := f.db.Create(s).Error; err != nil {
		return nil, fmt.Errorf("create shayari: %w", err)
	}
	return s, nil
}

// CreateShayarisBatch inserts prebuilt shayaris in batches.
func (f *Factory) CreateShayarisBatch(shayaris []*models.Shayari) error {
	if len(shayaris) == 0 {
		return nil
	}
	return f.db.CreateInBatches(shayaris, 100).Error
}

// CreateLike records that user liked shayari. Existing likes are kept.
func (f *Factory) CreateLike(user *models.User, shayari *models.Shayari) error {
	like := models.Like{UserID: user.ID, ShayariID: shayari.ID}
	return f.db.Where(models.Like{UserID: user.ID, ShayariID: shayari.ID}).FirstOrCreate(&like).Error
}

func (f *Factory) username() string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return -1
	}, gofakeit.Username())
	if len(name) > 20 {
		name = name[:20]
	}
	return fmt.Sprintf("%s_%d", name, f.rng.Intn(10000))
}

func (f *Factory) title() string {
	return openings[f.rng.Intn(len(openings))] + " " + gofakeit.RandomString([]string{"ka", "ki", "ke"}) + " " +
		strings.ToLower(openings[f.rng.Intn(len(openings))])
}

func (f *Factory) verse(lines int) string {
	out := make([]string, lines)
	for i := range out {
		out[i] = phrases[f.rng.Intn(len(phrases))] + " " +
			connectors[f.rng.Intn(len(connectors))] + " " +
			phrases[f.rng.Intn(len(phrases))]
	}
	return strings.Join(out, "\n")
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().UTC().Add(-back)
}
