package repository

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	Update(ctx context.Context, user *model.User) error
	FindBlocked(ctx context.Context, page, perPage int) (*database.Page[model.User], error)
	SearchByName(ctx context.Context, search string) ([]model.User, error)
	SendHug(ctx context.Context, giverID, receiverID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	// Role is assigned by id; the loaded association is response-only.
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		First(&user, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		Where("external_id = ?", externalID).
		First(&user).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).
		Preload("Permissions").
		Where("name = ?", name).
		First(&role).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &role, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (r *userRepository) FindBlocked(ctx context.Context, page, perPage int) (*database.Page[model.User], error) {
	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Preload("Role").
		Where("blocked = ?", true).
		Order("release_date ASC")
	return database.Paginate[model.User](query, page, perPage)
}

func (r *userRepository) SearchByName(ctx context.Context, search string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("display_name LIKE ?", "%"+search+"%").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return users, nil
}

// SendHug bumps the giver's given-hugs and the receiver's received-hugs
// in one transaction.
func (r *userRepository) SendHug(ctx context.Context, giverID, receiverID uint) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", receiverID).
			UpdateColumn("received_hugs", gorm.Expr("received_hugs + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.User{}).
			Where("id = ?", giverID).
			UpdateColumn("given_hugs", gorm.Expr("given_hugs + 1")).Error
	})
}
