package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/kindnest/kindnest-api/pkg/validator"
	"gorm.io/datatypes"
)

// UserUpdate carries the optional self-edit and moderation fields of a
// user PATCH. Nil pointers leave the column untouched.
type UserUpdate struct {
	DisplayName  *string
	SelectedIcon *string
	IconColours  json.RawMessage
	RefreshRate  *int
	AutoRefresh  *bool
	PushEnabled  *bool
	LoginCount   *int
	// Moderation-only fields; require block:user.
	Blocked     *bool
	ReleaseDate *time.Time
}

type UserService interface {
	Create(ctx context.Context, externalID, displayName string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// ResolveByExternalID maps a verified token subject to its user row,
	// applying the expired-block auto-clear on the way.
	ResolveByExternalID(ctx context.Context, externalID string) (*model.User, error)
	// RecordLogin bumps the login counter for a returning user.
	RecordLogin(ctx context.Context, user *model.User) (*model.User, error)
	Update(ctx context.Context, actor *model.User, id uint, update UserUpdate) (*model.User, error)
	SendHug(ctx context.Context, giver *model.User, receiverID uint) (*model.User, error)
	GetBlocked(ctx context.Context, page int) (*database.Page[model.User], error)
}

type userService struct {
	repo          repository.UserRepository
	filters       FilterService
	notifications NotificationService
}

func NewUserService(repo repository.UserRepository, filters FilterService, notifications NotificationService) UserService {
	return &userService{
		repo:          repo,
		filters:       filters,
		notifications: notifications,
	}
}

// Create registers a user on first login. The display name defaults to a
// placeholder the user is expected to change.
func (s *userService) Create(ctx context.Context, externalID, displayName string) (*model.User, error) {
	if displayName == "" {
		displayName = "New user"
	}
	if err := validator.CheckLength("display name", displayName, validator.MaxDisplayNameLength); err != nil {
		return nil, err
	}
	if err := s.filters.Check(ctx, "display name", displayName); err != nil {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		DisplayName: displayName,
		ExternalID:  externalID,
		RoleID:      role.ID,
		Role:        *role,
		LoginCount:  1,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.clearExpiredBlock(ctx, user)
}

func (s *userService) ResolveByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.clearExpiredBlock(ctx, user)
}

// clearExpiredBlock lifts a block whose release date has passed. The flag
// is checked on every read, so an expired block never gates anything.
func (s *userService) clearExpiredBlock(ctx context.Context, user *model.User) (*model.User, error) {
	if !user.Blocked || user.ReleaseDate == nil || time.Now().Before(*user.ReleaseDate) {
		return user, nil
	}

	role, err := s.repo.FindRoleByName(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}

	user.Blocked = false
	user.ReleaseDate = nil
	user.RoleID = role.ID
	user.Role = *role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("block on user %d expired and was cleared", user.ID)
	return user, nil
}

func (s *userService) RecordLogin(ctx context.Context, user *model.User) (*model.User, error) {
	user.LoginCount++
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor *model.User, id uint, update UserUpdate) (*model.User, error) {
	if actor.ID == id {
		if !actor.Role.HasAnyPermission(model.PermPatchMyUser, model.PermPatchAnyUser) {
			return nil, apperror.Forbidden("you do not have permission to edit your profile")
		}
	} else if !actor.Role.HasAnyPermission(model.PermPatchAnyUser, model.PermBlockUser) {
		return nil, apperror.Forbidden("you do not have permission to edit another user")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		if err := validator.CheckLength("display name", *update.DisplayName, validator.MaxDisplayNameLength); err != nil {
			return nil, err
		}
		if err := s.filters.Check(ctx, "display name", *update.DisplayName); err != nil {
			return nil, err
		}
		user.DisplayName = *update.DisplayName
	}
	if update.SelectedIcon != nil {
		user.SelectedIcon = *update.SelectedIcon
	}
	if update.IconColours != nil {
		user.IconColours = datatypes.JSON(update.IconColours)
	}
	if update.RefreshRate != nil {
		user.RefreshRate = *update.RefreshRate
	}
	if update.AutoRefresh != nil {
		user.AutoRefresh = *update.AutoRefresh
	}
	if update.PushEnabled != nil {
		user.PushEnabled = *update.PushEnabled
	}
	if update.LoginCount != nil {
		user.LoginCount = *update.LoginCount
	}

	if update.Blocked != nil {
		if err := s.applyBlock(ctx, actor, user, *update.Blocked, update.ReleaseDate); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) applyBlock(ctx context.Context, actor *model.User, user *model.User, blocked bool, releaseDate *time.Time) error {
	if !actor.Role.HasAnyPermission(model.PermBlockUser) {
		return apperror.Forbidden("you do not have permission to block users")
	}

	roleName := model.RoleBlocked
	if !blocked {
		roleName = model.RoleUser
		releaseDate = nil
	} else if releaseDate == nil {
		return apperror.BadRequest("a release date is required when blocking a user")
	}

	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}

	user.Blocked = blocked
	user.ReleaseDate = releaseDate
	user.RoleID = role.ID
	user.Role = *role
	return nil
}

func (s *userService) SendHug(ctx context.Context, giver *model.User, receiverID uint) (*model.User, error) {
	if err := s.repo.SendHug(ctx, giver.ID, receiverID); err != nil {
		return nil, err
	}

	receiver, err := s.repo.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	if receiver.ID != giver.ID {
		text := fmt.Sprintf("%s sent you a hug", giver.DisplayName)
		if err := s.notifications.Notify(ctx, receiver.ID, giver.ID, model.NotificationTypeHug, text); err != nil {
			log.Printf("failed to notify user %d of hug: %v", receiver.ID, err)
		}
	}

	return receiver, nil
}

func (s *userService) GetBlocked(ctx context.Context, page int) (*database.Page[model.User], error) {
	return s.repo.FindBlocked(ctx, page, database.DefaultPerPage)
}
