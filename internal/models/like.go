package models

import "time"

// Like represents a user's like on a shayari.
// The combination of UserID and ShayariID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_shayari" json:"userId"`
	ShayariID uint      `gorm:"not null;uniqueIndex:idx_like_user_shayari;index" json:"shayariId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is the outcome of a toggle or status lookup.
type LikeState struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}
