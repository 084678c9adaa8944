package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindForUserSince(ctx context.Context, userID uint, since *time.Time) ([]model.Notification, error)
	CreateSub(ctx context.Context, sub *model.NotificationSub) error
	UpdateSub(ctx context.Context, sub *model.NotificationSub) error
	FindSubByID(ctx context.Context, id uuid.UUID) (*model.NotificationSub, error)
	FindSubsByUserID(ctx context.Context, userID uint) ([]model.NotificationSub, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return database.Translate(r.db.WithContext(ctx).Create(notification).Error)
}

// FindForUserSince returns notifications newer than the user's read
// watermark; a nil watermark returns everything.
func (r *notificationRepository) FindForUserSince(ctx context.Context, userID uint, since *time.Time) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).
		Preload("From", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "display_name", "selected_icon")
		}).
		Where("for_id = ?", userID)

	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, database.Translate(err)
	}
	return notifications, nil
}

func (r *notificationRepository) CreateSub(ctx context.Context, sub *model.NotificationSub) error {
	return database.Translate(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *notificationRepository) UpdateSub(ctx context.Context, sub *model.NotificationSub) error {
	return database.Translate(r.db.WithContext(ctx).Save(sub).Error)
}

func (r *notificationRepository) FindSubByID(ctx context.Context, id uuid.UUID) (*model.NotificationSub, error) {
	var sub model.NotificationSub
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &sub, nil
}

func (r *notificationRepository) FindSubsByUserID(ctx context.Context, userID uint) ([]model.NotificationSub, error) {
	var subs []model.NotificationSub
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return nil, database.Translate(err)
	}
	return subs, nil
}
