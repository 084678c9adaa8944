package repository

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
)

type FilterRepository interface {
	Create(ctx context.Context, filter *model.Filter) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context, page, perPage int) (*database.Page[model.Filter], error)
	Words(ctx context.Context) ([]string, error)
}

type filterRepository struct {
	db *gorm.DB
}

func NewFilterRepository(db *gorm.DB) FilterRepository {
	return &filterRepository{db: db}
}

func (r *filterRepository) Create(ctx context.Context, filter *model.Filter) error {
	// The unique index on word turns re-adding a phrase into a 409.
	return database.Translate(r.db.WithContext(ctx).Create(filter).Error)
}

func (r *filterRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Filter{}, id)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.Translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *filterRepository) FindAll(ctx context.Context, page, perPage int) (*database.Page[model.Filter], error) {
	query := r.db.WithContext(ctx).Model(&model.Filter{}).Order("id ASC")
	return database.Paginate[model.Filter](query, page, perPage)
}

func (r *filterRepository) Words(ctx context.Context) ([]string, error) {
	var words []string
	err := r.db.WithContext(ctx).
		Model(&model.Filter{}).
		Pluck("word", &words).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return words, nil
}
