package notifications

import (
	"encoding/json"
	"time"
)

// Event types delivered to websocket clients.
const (
	EventShayariLiked    = "shayari_liked"
	EventShayariRemoved  = "shayari_removed"
	EventAccountBanned   = "account_banned"
	EventAccountUnbanned = "account_unbanned"
	EventRoleChanged     = "role_changed"
	EventMessagesDropped = "messages_dropped"
)

// Event is the envelope written to the socket.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ShayariLikedPayload tells an author who liked which shayari.
type ShayariLikedPayload struct {
	ShayariID  uint   `json:"shayariId"`
	Title      string `json:"title"`
	LikedBy    string `json:"likedBy"`
	LikesCount int64  `json:"likesCount"`
}

// ShayariRemovedPayload tells an author a moderator took a shayari down.
type ShayariRemovedPayload struct {
	ShayariID uint   `json:"shayariId"`
	Title     string `json:"title"`
}

// RoleChangedPayload carries the account's new role.
type RoleChangedPayload struct {
	Role string `json:"role"`
}

// Encode marshals e, stamping the current time when unset.
func (e Event) Encode() (string, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
