package database

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type pageItem struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&pageItem{}))
	return db
}

func seedItems(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&pageItem{Name: fmt.Sprintf("item-%02d", i)}).Error)
	}
}

func TestPaginateFirstPage(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, 12)

	page, err := Paginate[pageItem](db.Model(&pageItem{}).Order("id"), 1, 5)
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 5, page.PerPage)
	assert.Equal(t, int64(12), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "item-01", page.Items[0].Name)
}

func TestPaginateLastPartialPage(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, 12)

	page, err := Paginate[pageItem](db.Model(&pageItem{}).Order("id"), 3, 5)
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "item-11", page.Items[0].Name)
}

func TestPaginateBeyondRange(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, 3)

	page, err := Paginate[pageItem](db.Model(&pageItem{}).Order("id"), 7, 5)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginateRespectsFilter(t *testing.T) {
	db := openTestDB(t)
	seedItems(t, db, 12)

	query := db.Model(&pageItem{}).Where("name LIKE ?", "%1%").Order("id")
	page, err := Paginate[pageItem](query, 1, 50)
	require.NoError(t, err)

	// item-01 and item-10..12.
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Len(t, page.Items, 4)
}

func TestPaginateRejectsBadPage(t *testing.T) {
	db := openTestDB(t)

	for _, page := range []int{0, -3} {
		_, err := Paginate[pageItem](db.Model(&pageItem{}), page, 5)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, apperror.MapErrorToStatus(err))
	}
}

func TestTranslateUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&pageItem{Name: "dup"}).Error)

	err := Translate(db.Create(&pageItem{Name: "dup"}).Error)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestTranslateMissingRow(t *testing.T) {
	err := Translate(gorm.ErrRecordNotFound)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTranslateKeepsAppErrors(t *testing.T) {
	original := apperror.Conflict("already hugged")
	assert.Equal(t, original, Translate(original))
	assert.Nil(t, Translate(nil))
}
