package validation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"shayarihub/internal/models"
)

const (
	MaxTitleLength       = 100
	MaxContentLength     = 2000
	MaxBioLength         = 500
	MaxDescriptionLength = 500
)

// ValidateShayari checks trimmed title and content and the visibility value.
func ValidateShayari(title, content string, visibility models.Visibility) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return fmt.Errorf("title and content are required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(title)) > MaxTitleLength {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) > MaxContentLength {
		return fmt.Errorf("content must not exceed %d characters", MaxContentLength)
	}
	if !visibility.Valid() {
		return fmt.Errorf("invalid visibility option")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return fmt.Errorf("bio must not exceed %d characters", MaxBioLength)
	}
	return nil
}

// ValidateReport checks the reason against the known list.
func ValidateReport(reason, description string) error {
	if reason == "" {
		return fmt.Errorf("reason is required")
	}
	if !slices.Contains(models.ReportReasons, reason) {
		return fmt.Errorf("invalid report reason")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", MaxDescriptionLength)
	}
	return nil
}
