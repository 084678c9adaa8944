package repository

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uint) (*model.Report, error)
	Update(ctx context.Context, report *model.Report) error
	FindOpen(ctx context.Context, reportType string, page, perPage int) (*database.Page[model.Report], error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return database.Translate(r.db.WithContext(ctx).Create(report).Error)
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &report, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	// Dismissed/closed move in both directions, so write them explicitly.
	err := r.db.WithContext(ctx).Model(report).
		Select("dismissed", "closed").
		Updates(map[string]any{
			"dismissed": report.Dismissed,
			"closed":    report.Closed,
		}).Error
	return database.Translate(err)
}

// FindOpen lists un-closed reports of one type for the admin board.
func (r *reportRepository) FindOpen(ctx context.Context, reportType string, page, perPage int) (*database.Page[model.Report], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("type = ? AND closed = ?", reportType, false).
		Order("created_at ASC")
	return database.Paginate[model.Report](query, page, perPage)
}
