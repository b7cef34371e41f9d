package models

import "time"

// ReportStatus is the moderation state of a report.
type ReportStatus string

// ReportStatusPending is the only state a new report can have.
const ReportStatusPending ReportStatus = "pending"

// ReportReasons lists the accepted report reasons.
var ReportReasons = []string{"spam", "inappropriate", "harassment", "copyright", "other"}

// Report is a user's complaint about a shayari.
type Report struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ShayariID   uint           `gorm:"not null;uniqueIndex:idx_report_reporter_shayari;index" json:"shayariId"`
	Shayari     *Shayari       `gorm:"foreignKey:ShayariID" json:"shayari,omitempty"`
	ReporterID  uint           `gorm:"not null;uniqueIndex:idx_report_reporter_shayari" json:"reportedBy"`
	Reporter    *AuthorProfile `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reason      string         `gorm:"size:32;not null" json:"reason"`
	Description string         `gorm:"size:500" json:"description"`
	Status      ReportStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}
