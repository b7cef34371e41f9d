package repository

import (
	"context"

	"shayarihub/internal/models"
	"shayarihub/internal/observability"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, page, limit int) ([]models.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create relies on the (reporter, shayari) unique index to reject repeats.
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	defer observability.TrackQuery("create", "reports")()

	report.Status = models.ReportStatusPending
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Already reported", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// List returns reports newest first with the shayari and reporter attached.
func (r *reportRepository) List(ctx context.Context, page, limit int) ([]models.Report, int64, error) {
	defer observability.TrackQuery("list", "reports")()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	reports := []models.Report{}
	err := r.db.WithContext(ctx).
		Preload("Shayari").
		Preload("Reporter").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset(page, limit)).
		Find(&reports).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reports, total, nil
}
