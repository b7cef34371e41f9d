package models

import "time"

// UserStats summarises a single author's activity.
type UserStats struct {
	TotalShayaris    int64    `json:"totalShayaris"`
	TotalLikes       int64    `json:"totalLikes"`
	MostLikedShayari *Shayari `json:"mostLikedShayari"`
}

// UserCounts is the users block of the admin dashboard.
type UserCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Banned int64 `json:"banned"`
	Admins int64 `json:"admins"`
	Recent int64 `json:"recent"`
}

// ShayariCounts is the shayaris block of the admin dashboard.
type ShayariCounts struct {
	Total   int64 `json:"total"`
	Public  int64 `json:"public"`
	Private int64 `json:"private"`
}

// Engagement is the likes block of the admin dashboard.
type Engagement struct {
	TotalLikes         int64   `json:"totalLikes"`
	AvgLikesPerShayari float64 `json:"avgLikesPerShayari"`
}

// TopShayari is a leaderboard entry.
type TopShayari struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	LikesCount     int64     `json:"likesCount"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SiteStats is the admin dashboard payload.
type SiteStats struct {
	Users       UserCounts    `json:"users"`
	Shayaris    ShayariCounts `json:"shayaris"`
	Engagement  Engagement    `json:"engagement"`
	TopShayaris []TopShayari  `json:"topShayaris"`
}

// AuditEntry records a moderation action.
type AuditEntry struct {
	Action     string    `json:"action" bson:"action"`
	ActorID    uint      `json:"actorId" bson:"actor_id"`
	TargetType string    `json:"targetType" bson:"target_type"`
	TargetID   uint      `json:"targetId" bson:"target_id"`
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	RequestID  string    `json:"requestId,omitempty" bson:"request_id,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}
