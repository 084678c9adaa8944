package database

import (
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"gorm.io/gorm"
)

// DefaultPerPage matches the page size the web client renders.
const DefaultPerPage = 5

// Page is one slice of a paginated result set.
type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// Paginate runs the two-pass offset pagination over an already-filtered
// query: one count of the predicate, one bounded select. A page past the
// end yields an empty item list with the correct totals, not an error.
// The query must carry its Model (or a Table) so the count pass works.
func Paginate[T any](query *gorm.DB, page, perPage int) (*Page[T], error) {
	if page < 1 {
		return nil, apperror.Unprocessable("page must be 1 or higher")
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, Translate(err)
	}

	items := make([]T, 0, perPage)
	err := query.Session(&gorm.Session{}).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, Translate(err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Page[T]{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
	}, nil
}
