package cache

import (
	"fmt"
	"strings"
	"time"
)

const (
	TypeaheadTTL  = 30 * time.Second
	AdminStatsTTL = time.Minute
	UserStatsTTL  = 2 * time.Minute
)

// AdminStatsKey holds the cached admin dashboard.
const AdminStatsKey = "stats:admin"

func TypeaheadKey(kind, prefix string) string {
	return fmt.Sprintf("typeahead:%s:%s", kind, strings.ToLower(prefix))
}

func UserStatsKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

func RevokedTokenKey(jti string) string {
	return "revoked:" + jti
}
