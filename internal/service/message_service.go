package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/kindnest/kindnest-api/pkg/validator"
)

// Mailbox views over the message store.
const (
	MailboxInbox   = "inbox"
	MailboxOutbox  = "outbox"
	MailboxThread  = "thread"
	MailboxThreads = "threads"
)

type MessageService interface {
	Send(ctx context.Context, sender *model.User, forID uint, text string) (*model.Message, error)
	Inbox(ctx context.Context, user *model.User, page int) (*database.Page[model.Message], error)
	Outbox(ctx context.Context, user *model.User, page int) (*database.Page[model.Message], error)
	Threads(ctx context.Context, user *model.User, page int) (*database.Page[repository.ThreadSummary], error)
	ThreadMessages(ctx context.Context, user *model.User, threadID uint, page int) (*database.Page[model.Message], error)
	// Delete runs the soft-delete state machine for one message (or, for
	// the threads mailbox, one thread row) and returns the id acted upon.
	Delete(ctx context.Context, user *model.User, mailboxType string, id uint) (uint, error)
	// Clear empties a whole mailbox view with set-based statements and
	// returns how many rows were touched.
	Clear(ctx context.Context, user *model.User, mailboxType string) (int64, error)
}

type messageService struct {
	repo          repository.MessageRepository
	userRepo      repository.UserRepository
	filters       FilterService
	notifications NotificationService
}

func NewMessageService(repo repository.MessageRepository, userRepo repository.UserRepository, filters FilterService, notifications NotificationService) MessageService {
	return &messageService{
		repo:          repo,
		userRepo:      userRepo,
		filters:       filters,
		notifications: notifications,
	}
}

// Send delivers a direct message, creating the participants' thread on
// first contact. Messaging over a previously-deleted thread revives it
// for both sides.
func (s *messageService) Send(ctx context.Context, sender *model.User, forID uint, text string) (*model.Message, error) {
	if err := validator.CheckLength("message", text, validator.MaxMessageLength); err != nil {
		return nil, err
	}
	if err := s.filters.Check(ctx, "message", text); err != nil {
		return nil, err
	}
	if forID == sender.ID {
		return nil, apperror.BadRequest("you cannot message yourself")
	}

	recipient, err := s.userRepo.FindByID(ctx, forID)
	if err != nil {
		return nil, err
	}

	thread, err := s.repo.FindThreadByParticipants(ctx, sender.ID, recipient.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		thread = &model.Thread{User1ID: sender.ID, User2ID: recipient.ID}
		if err := s.repo.CreateThread(ctx, thread); err != nil {
			return nil, err
		}
	} else if thread.User1Deleted || thread.User2Deleted {
		thread.User1Deleted = false
		thread.User2Deleted = false
		if err := s.repo.UpdateThread(ctx, thread); err != nil {
			return nil, err
		}
	}

	message := &model.Message{
		FromID:   sender.ID,
		From:     *sender,
		ForID:    recipient.ID,
		For:      *recipient,
		ThreadID: thread.ID,
		Text:     text,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	text = fmt.Sprintf("%s sent you a message", sender.DisplayName)
	if err := s.notifications.Notify(ctx, recipient.ID, sender.ID, model.NotificationTypeMessage, text); err != nil {
		log.Printf("failed to notify user %d of message: %v", recipient.ID, err)
	}

	return message, nil
}

func (s *messageService) Inbox(ctx context.Context, user *model.User, page int) (*database.Page[model.Message], error) {
	return s.repo.Inbox(ctx, user.ID, page, database.DefaultPerPage)
}

func (s *messageService) Outbox(ctx context.Context, user *model.User, page int) (*database.Page[model.Message], error) {
	return s.repo.Outbox(ctx, user.ID, page, database.DefaultPerPage)
}

func (s *messageService) Threads(ctx context.Context, user *model.User, page int) (*database.Page[repository.ThreadSummary], error) {
	return s.repo.Threads(ctx, user.ID, page, database.DefaultPerPage)
}

func (s *messageService) ThreadMessages(ctx context.Context, user *model.User, threadID uint, page int) (*database.Page[model.Message], error) {
	thread, err := s.repo.FindThreadByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(user.ID) {
		return nil, apperror.Forbidden("you are not a participant in this thread")
	}
	return s.repo.ThreadMessages(ctx, threadID, user.ID, page, database.DefaultPerPage)
}

func (s *messageService) Delete(ctx context.Context, user *model.User, mailboxType string, id uint) (uint, error) {
	switch mailboxType {
	case MailboxInbox, MailboxOutbox, MailboxThread:
		return s.deleteMessage(ctx, user, mailboxType, id)
	case MailboxThreads:
		return s.deleteThread(ctx, user, id)
	default:
		return 0, apperror.BadRequest("unknown mailbox type: " + mailboxType)
	}
}

// deleteMessage flips the requester's side of the soft-delete pair; once
// both sides are flagged the row is purged rather than kept around.
func (s *messageService) deleteMessage(ctx context.Context, user *model.User, mailboxType string, id uint) (uint, error) {
	message, err := s.repo.FindMessageByID(ctx, id)
	if err != nil {
		return 0, err
	}

	switch mailboxType {
	case MailboxInbox:
		if message.ForID != user.ID {
			return 0, apperror.Forbidden("this message is not in your inbox")
		}
		message.ForDeleted = true
	case MailboxOutbox:
		if message.FromID != user.ID {
			return 0, apperror.Forbidden("this message is not in your outbox")
		}
		message.FromDeleted = true
	case MailboxThread:
		switch user.ID {
		case message.ForID:
			message.ForDeleted = true
		case message.FromID:
			message.FromDeleted = true
		default:
			return 0, apperror.Forbidden("you are not a participant in this conversation")
		}
	}

	if message.ForDeleted && message.FromDeleted {
		if err := s.repo.DeleteMessage(ctx, id); err != nil {
			return 0, err
		}
	} else if err := s.repo.UpdateMessage(ctx, message); err != nil {
		return 0, err
	}

	return id, nil
}

// deleteThread runs the same state machine against the thread row's own
// flag pair. Message rows under a purged thread go with it via the
// foreign key's ON DELETE CASCADE.
func (s *messageService) deleteThread(ctx context.Context, user *model.User, id uint) (uint, error) {
	thread, err := s.repo.FindThreadByID(ctx, id)
	if err != nil {
		return 0, err
	}

	switch user.ID {
	case thread.User1ID:
		thread.User1Deleted = true
	case thread.User2ID:
		thread.User2Deleted = true
	default:
		return 0, apperror.Forbidden("you are not a participant in this thread")
	}

	if thread.User1Deleted && thread.User2Deleted {
		if err := s.repo.DeleteThread(ctx, id); err != nil {
			return 0, err
		}
	} else if err := s.repo.UpdateThread(ctx, thread); err != nil {
		return 0, err
	}

	return id, nil
}

func (s *messageService) Clear(ctx context.Context, user *model.User, mailboxType string) (int64, error) {
	var (
		affected int64
		err      error
	)

	switch mailboxType {
	case MailboxInbox:
		affected, err = s.repo.ClearInbox(ctx, user.ID)
	case MailboxOutbox:
		affected, err = s.repo.ClearOutbox(ctx, user.ID)
	case MailboxThreads:
		affected, err = s.repo.ClearThreads(ctx, user.ID)
	default:
		return 0, apperror.BadRequest("unknown mailbox type: " + mailboxType)
	}

	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, apperror.NotFound("there are no messages to delete")
	}
	return affected, nil
}
