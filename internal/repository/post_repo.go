package repository

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// openReportSelect annotates each post row with the derived open_report
// flag. Keeping it as a query-time predicate means the flag always
// reflects the current report set.
const openReportSelect = "posts.*, EXISTS(SELECT 1 FROM reports WHERE reports.post_id = posts.id AND reports.closed = ?) AS open_report"

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
	FindRecent(ctx context.Context, limit int) ([]model.Post, error)
	FindLeastHugged(ctx context.Context, limit int) ([]model.Post, error)
	FindByUserID(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Post], error)
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)
	Search(ctx context.Context, search string, page, perPage int) (*database.Page[model.Post], error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error)
	Hug(ctx context.Context, postID, giverID uint) (*model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	// The author association is set for the response payload only.
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		Select(openReportSelect, false).
		First(&post, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if res.Error != nil {
		return database.Translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.Translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *postRepository) FindRecent(ctx context.Context, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Select(openReportSelect, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return posts, nil
}

func (r *postRepository) FindLeastHugged(ctx context.Context, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Select(openReportSelect, false).
		Order("given_hugs ASC").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return posts, nil
}

func (r *postRepository) FindByUserID(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Preload("User").
		Select(openReportSelect, false).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	return database.Paginate[model.Post](query, page, perPage)
}

func (r *postRepository) DeleteByUserID(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Post{})
	if res.Error != nil {
		return 0, database.Translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *postRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Post, error) {
	if len(ids) == 0 {
		return []model.Post{}, nil
	}
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Select(openReportSelect, false).
		Where("posts.id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return posts, nil
}

// Hug appends giverID to the post's hug list and bumps all three counters
// (post, giver, author) in one transaction. A second hug from the same
// user is a conflict; the counter can never exceed the distinct-hugger
// count.
func (r *postRepository) Hug(ctx context.Context, postID, giverID uint) (*model.Post, error) {
	var hugged model.Post
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		for {
			var post model.Post
			if err := tx.Preload("User").First(&post, postID).Error; err != nil {
				return err
			}

			if post.HuggedBy(giverID) {
				return apperror.Conflict("you have already hugged this post")
			}

			// Guarding the write on the counter value we read turns a
			// concurrent append into a re-read instead of a lost update.
			sent := append(post.SentHugs, giverID)
			res := tx.Model(&model.Post{}).
				Where("id = ? AND given_hugs = ?", post.ID, post.GivenHugs).
				Updates(map[string]any{
					"sent_hugs":  sent,
					"given_hugs": post.GivenHugs + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			err := tx.Model(&model.User{}).Where("id = ?", giverID).
				UpdateColumn("given_hugs", gorm.Expr("given_hugs + 1")).Error
			if err != nil {
				return err
			}
			err = tx.Model(&model.User{}).Where("id = ?", post.UserID).
				UpdateColumn("received_hugs", gorm.Expr("received_hugs + 1")).Error
			if err != nil {
				return err
			}

			post.SentHugs = sent
			post.GivenHugs++
			hugged = post
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return &hugged, nil
}

func (r *postRepository) Search(ctx context.Context, search string, page, perPage int) (*database.Page[model.Post], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Preload("User").
		Select(openReportSelect, false).
		Where("text LIKE ?", "%"+search+"%").
		Order("created_at DESC")
	return database.Paginate[model.Post](query, page, perPage)
}
