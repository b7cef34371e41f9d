package models

import "time"

// Visibility controls who can see a shayari.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the two accepted values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Shayari is a short poem authored by a user.
type Shayari struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"size:100;not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Visibility Visibility     `gorm:"size:10;not null;default:public;index" json:"visibility"`
	AuthorID   uint           `gorm:"not null;index" json:"authorId"`
	Author     *AuthorProfile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	// LikesCount is computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likesCount"`
	// RelevanceScore is only populated by free-text search
	RelevanceScore int       `gorm:"->;-:migration" json:"relevanceScore,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// IsPublic reports whether the shayari is visible to everyone.
func (s *Shayari) IsPublic() bool {
	return s.Visibility == VisibilityPublic
}

// VisibleTo reports whether userID may read the shayari. Zero means anonymous.
func (s *Shayari) VisibleTo(userID uint) bool {
	return s.IsPublic() || (userID != 0 && s.AuthorID == userID)
}
