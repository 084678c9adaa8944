package service

import (
	"context"
	"fmt"
	"log"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/kindnest/kindnest-api/pkg/validator"
)

// HomeItems is how many posts each home-page list carries.
const HomeItems = 10

type PostService interface {
	Home(ctx context.Context) (recent, suggested []model.Post, err error)
	Create(ctx context.Context, author *model.User, text string) (*model.Post, error)
	Update(ctx context.Context, actor *model.User, id uint, text string) (*model.Post, error)
	Delete(ctx context.Context, actor *model.User, id uint) error
	SendHug(ctx context.Context, giver *model.User, postID uint) (*model.Post, error)
	GetByUser(ctx context.Context, userID uint, page int) (*database.Page[model.Post], error)
	DeleteAllByUser(ctx context.Context, actor *model.User, targetID uint) (int64, error)
}

type postService struct {
	repo          repository.PostRepository
	filters       FilterService
	notifications NotificationService
	search        SearchService
}

func NewPostService(repo repository.PostRepository, filters FilterService, notifications NotificationService, search SearchService) PostService {
	return &postService{
		repo:          repo,
		filters:       filters,
		notifications: notifications,
		search:        search,
	}
}

func (s *postService) Home(ctx context.Context) ([]model.Post, []model.Post, error) {
	recent, err := s.repo.FindRecent(ctx, HomeItems)
	if err != nil {
		return nil, nil, err
	}
	suggested, err := s.repo.FindLeastHugged(ctx, HomeItems)
	if err != nil {
		return nil, nil, err
	}
	return recent, suggested, nil
}

func (s *postService) Create(ctx context.Context, author *model.User, text string) (*model.Post, error) {
	if err := validator.CheckLength("post", text, validator.MaxPostLength); err != nil {
		return nil, err
	}
	if err := s.filters.Check(ctx, "post", text); err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:   author.ID,
		User:     *author,
		Text:     text,
		SentHugs: []uint{},
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.search.IndexPost(post)

	return post, nil
}

func (s *postService) Update(ctx context.Context, actor *model.User, id uint, text string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkOwnership(actor, post.UserID, model.PermPatchMyPost, model.PermPatchAnyPost); err != nil {
		return nil, err
	}

	if err := validator.CheckLength("post", text, validator.MaxPostLength); err != nil {
		return nil, err
	}
	if err := s.filters.Check(ctx, "post", text); err != nil {
		return nil, err
	}

	post.Text = text
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.search.IndexPost(post)

	return post, nil
}

func (s *postService) Delete(ctx context.Context, actor *model.User, id uint) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := checkOwnership(actor, post.UserID, model.PermDeleteMyPost, model.PermDeleteAnyPost); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.search.RemovePost(id)

	return nil
}

func (s *postService) SendHug(ctx context.Context, giver *model.User, postID uint) (*model.Post, error) {
	post, err := s.repo.Hug(ctx, postID, giver.ID)
	if err != nil {
		return nil, err
	}

	if post.UserID != giver.ID {
		text := fmt.Sprintf("%s sent you a hug", giver.DisplayName)
		if err := s.notifications.Notify(ctx, post.UserID, giver.ID, model.NotificationTypeHug, text); err != nil {
			// The hug itself is committed; delivery is best-effort.
			log.Printf("failed to notify user %d of hug: %v", post.UserID, err)
		}
	}

	return post, nil
}

func (s *postService) GetByUser(ctx context.Context, userID uint, page int) (*database.Page[model.Post], error) {
	return s.repo.FindByUserID(ctx, userID, page, database.DefaultPerPage)
}

func (s *postService) DeleteAllByUser(ctx context.Context, actor *model.User, targetID uint) (int64, error) {
	if err := checkOwnership(actor, targetID, model.PermDeleteMyPost, model.PermDeleteAnyPost); err != nil {
		return 0, err
	}

	affected, err := s.repo.DeleteByUserID(ctx, targetID)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, apperror.NotFound("this user has no posts to delete")
	}
	return affected, nil
}

// checkOwnership enforces the my/any permission split: acting on your own
// resource needs the narrow permission, acting on someone else's needs the
// broad one.
func checkOwnership(actor *model.User, ownerID uint, ownPerm, anyPerm string) error {
	if actor.ID == ownerID {
		if !actor.Role.HasAnyPermission(ownPerm, anyPerm) {
			return apperror.Forbidden("you do not have permission to do that")
		}
		return nil
	}
	if !actor.Role.HasAnyPermission(anyPerm) {
		return apperror.Forbidden("you do not have permission to act on another user's content")
	}
	return nil
}
