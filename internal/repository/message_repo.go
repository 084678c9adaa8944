package repository

import (
	"context"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThreadSummary is the read model for the threads mailbox: the thread row
// plus each participant's count of still-visible messages. The counts are
// recomputed per read, never stored.
type ThreadSummary struct {
	ID            uint   `json:"id"`
	User1ID       uint   `gorm:"column:user_1_id" json:"user_1_id"`
	User2ID       uint   `gorm:"column:user_2_id" json:"user_2_id"`
	User1Name     string `json:"user_1_name"`
	User2Name     string `json:"user_2_name"`
	User1Messages int64  `json:"user_1_messages"`
	User2Messages int64  `json:"user_2_messages"`
}

const threadCountsSelect = `threads.*,
(SELECT display_name FROM users WHERE users.id = threads.user_1_id) AS user1_name,
(SELECT display_name FROM users WHERE users.id = threads.user_2_id) AS user2_name,
(SELECT COUNT(*) FROM messages m WHERE m.thread_id = threads.id AND ((m.for_id = threads.user_1_id AND m.for_deleted = false) OR (m.from_id = threads.user_1_id AND m.from_deleted = false))) AS user1_messages,
(SELECT COUNT(*) FROM messages m WHERE m.thread_id = threads.id AND ((m.for_id = threads.user_2_id AND m.for_deleted = false) OR (m.from_id = threads.user_2_id AND m.from_deleted = false))) AS user2_messages`

type MessageRepository interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	FindMessageByID(ctx context.Context, id uint) (*model.Message, error)
	UpdateMessage(ctx context.Context, message *model.Message) error
	DeleteMessage(ctx context.Context, id uint) error

	CreateThread(ctx context.Context, thread *model.Thread) error
	FindThreadByID(ctx context.Context, id uint) (*model.Thread, error)
	FindThreadByParticipants(ctx context.Context, a, b uint) (*model.Thread, error)
	UpdateThread(ctx context.Context, thread *model.Thread) error
	DeleteThread(ctx context.Context, id uint) error

	Inbox(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Message], error)
	Outbox(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Message], error)
	Threads(ctx context.Context, userID uint, page, perPage int) (*database.Page[ThreadSummary], error)
	ThreadMessages(ctx context.Context, threadID, userID uint, page, perPage int) (*database.Page[model.Message], error)

	ClearInbox(ctx context.Context, userID uint) (int64, error)
	ClearOutbox(ctx context.Context, userID uint) (int64, error)
	ClearThreads(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateMessage(ctx context.Context, message *model.Message) error {
	// From/For are set for the response payload only.
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error)
}

func (r *messageRepository) FindMessageByID(ctx context.Context, id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).
		Preload("From").
		Preload("For").
		First(&message, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &message, nil
}

func (r *messageRepository) UpdateMessage(ctx context.Context, message *model.Message) error {
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(message).Error)
}

func (r *messageRepository) DeleteMessage(ctx context.Context, id uint) error {
	return database.Translate(r.db.WithContext(ctx).Delete(&model.Message{}, id).Error)
}

func (r *messageRepository) CreateThread(ctx context.Context, thread *model.Thread) error {
	return database.Translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(thread).Error)
}

func (r *messageRepository) FindThreadByID(ctx context.Context, id uint) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &thread, nil
}

// FindThreadByParticipants matches the unordered pair (a, b).
func (r *messageRepository) FindThreadByParticipants(ctx context.Context, a, b uint) (*model.Thread, error) {
	var thread model.Thread
	err := r.db.WithContext(ctx).
		Where("(user_1_id = ? AND user_2_id = ?) OR (user_1_id = ? AND user_2_id = ?)", a, b, b, a).
		First(&thread).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &thread, nil
}

func (r *messageRepository) UpdateThread(ctx context.Context, thread *model.Thread) error {
	// Save skips zero-valued booleans through its field filter, so write
	// the flag columns explicitly.
	err := r.db.WithContext(ctx).Model(thread).
		Select("user_1_deleted", "user_2_deleted").
		Updates(map[string]any{
			"user_1_deleted": thread.User1Deleted,
			"user_2_deleted": thread.User2Deleted,
		}).Error
	return database.Translate(err)
}

func (r *messageRepository) DeleteThread(ctx context.Context, id uint) error {
	return database.Translate(r.db.WithContext(ctx).Delete(&model.Thread{}, id).Error)
}

func (r *messageRepository) Inbox(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Message], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Preload("From").
		Preload("For").
		Where("for_id = ? AND for_deleted = ?", userID, false).
		Order("created_at DESC")
	return database.Paginate[model.Message](query, page, perPage)
}

func (r *messageRepository) Outbox(ctx context.Context, userID uint, page, perPage int) (*database.Page[model.Message], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Preload("From").
		Preload("For").
		Where("from_id = ? AND from_deleted = ?", userID, false).
		Order("created_at DESC")
	return database.Paginate[model.Message](query, page, perPage)
}

func (r *messageRepository) Threads(ctx context.Context, userID uint, page, perPage int) (*database.Page[ThreadSummary], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Thread{}).
		Select(threadCountsSelect).
		Where("(user_1_id = ? AND user_1_deleted = ?) OR (user_2_id = ? AND user_2_deleted = ?)",
			userID, false, userID, false).
		Order("threads.id DESC")
	return database.Paginate[ThreadSummary](query, page, perPage)
}

// ThreadMessages lists a thread's messages still visible to userID,
// whichever side of each message they are on.
func (r *messageRepository) ThreadMessages(ctx context.Context, threadID, userID uint, page, perPage int) (*database.Page[model.Message], error) {
	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Preload("From").
		Preload("For").
		Where("thread_id = ?", threadID).
		Where("(for_id = ? AND for_deleted = ?) OR (from_id = ? AND from_deleted = ?)",
			userID, false, userID, false).
		Order("created_at DESC")
	return database.Paginate[model.Message](query, page, perPage)
}

// ClearInbox clears every message in the user's inbox view with two
// set-based statements in one transaction: rows the sender already deleted
// are purged, the rest only get the recipient flag flipped.
func (r *messageRepository) ClearInbox(ctx context.Context, userID uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		del := tx.Where("for_id = ? AND for_deleted = ? AND from_deleted = ?", userID, false, true).
			Delete(&model.Message{})
		if del.Error != nil {
			return del.Error
		}

		upd := tx.Model(&model.Message{}).
			Where("for_id = ? AND for_deleted = ?", userID, false).
			Update("for_deleted", true)
		if upd.Error != nil {
			return upd.Error
		}

		affected = del.RowsAffected + upd.RowsAffected
		return nil
	})
	return affected, err
}

// ClearOutbox mirrors ClearInbox for the sender's view.
func (r *messageRepository) ClearOutbox(ctx context.Context, userID uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		del := tx.Where("from_id = ? AND from_deleted = ? AND for_deleted = ?", userID, false, true).
			Delete(&model.Message{})
		if del.Error != nil {
			return del.Error
		}

		upd := tx.Model(&model.Message{}).
			Where("from_id = ? AND from_deleted = ?", userID, false).
			Update("from_deleted", true)
		if upd.Error != nil {
			return upd.Error
		}

		affected = del.RowsAffected + upd.RowsAffected
		return nil
	})
	return affected, err
}

// ClearThreads clears the whole threads mailbox: one delete/update pair for
// message rows (the user may sit on either side of each message) and one
// pair for the thread rows themselves, all in a single transaction.
func (r *messageRepository) ClearThreads(ctx context.Context, userID uint) (int64, error) {
	var affected int64
	err := database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		delMsgs := tx.Where("(for_id = ? AND for_deleted = ? AND from_deleted = ?) OR (from_id = ? AND from_deleted = ? AND for_deleted = ?)",
			userID, false, true, userID, false, true).
			Delete(&model.Message{})
		if delMsgs.Error != nil {
			return delMsgs.Error
		}

		updMsgs := tx.Model(&model.Message{}).
			Where("(for_id = ? AND for_deleted = ?) OR (from_id = ? AND from_deleted = ?)",
				userID, false, userID, false).
			Updates(map[string]any{
				"for_deleted":  gorm.Expr("CASE WHEN for_id = ? THEN ? ELSE for_deleted END", userID, true),
				"from_deleted": gorm.Expr("CASE WHEN from_id = ? THEN ? ELSE from_deleted END", userID, true),
			})
		if updMsgs.Error != nil {
			return updMsgs.Error
		}

		delThreads := tx.Where("(user_1_id = ? AND user_1_deleted = ? AND user_2_deleted = ?) OR (user_2_id = ? AND user_2_deleted = ? AND user_1_deleted = ?)",
			userID, false, true, userID, false, true).
			Delete(&model.Thread{})
		if delThreads.Error != nil {
			return delThreads.Error
		}

		updThreads := tx.Model(&model.Thread{}).
			Where("(user_1_id = ? AND user_1_deleted = ?) OR (user_2_id = ? AND user_2_deleted = ?)",
				userID, false, userID, false).
			Updates(map[string]any{
				"user_1_deleted": gorm.Expr("CASE WHEN user_1_id = ? THEN ? ELSE user_1_deleted END", userID, true),
				"user_2_deleted": gorm.Expr("CASE WHEN user_2_id = ? THEN ? ELSE user_2_deleted END", userID, true),
			})
		if updThreads.Error != nil {
			return updThreads.Error
		}

		affected = delMsgs.RowsAffected + updMsgs.RowsAffected
		return nil
	})
	return affected, err
}
