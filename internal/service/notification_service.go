package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/push"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

type NotificationService interface {
	Notify(ctx context.Context, forID, fromID uint, notificationType, text string) error
	GetNotifications(ctx context.Context, user *model.User, silentRefresh bool) ([]model.Notification, error)
	Subscribe(ctx context.Context, userID uint, endpoint string, data []byte) (*model.NotificationSub, error)
	UpdateSubscription(ctx context.Context, userID uint, id uuid.UUID, endpoint string, data []byte) (*model.NotificationSub, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
	gateway     *push.Gateway
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, redisClient *redis.Client, gateway *push.Gateway) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		redisClient: redisClient,
		gateway:     gateway,
	}
}

// Notify appends a notification row and fans it out. The row write is
// authoritative; the Redis publish and web-push delivery are best-effort
// side effects that never fail the enclosing request.
func (s *notificationService) Notify(ctx context.Context, forID, fromID uint, notificationType, text string) error {
	notification := &model.Notification{
		ForID:  forID,
		FromID: fromID,
		Type:   notificationType,
		Text:   text,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%d", forID)
		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	go s.sendPush(notification)

	return nil
}

func (s *notificationService) sendPush(notification *model.Notification) {
	if !s.gateway.Enabled() {
		return
	}

	ctx := context.Background()

	user, err := s.userRepo.FindByID(ctx, notification.ForID)
	if err != nil || !user.PushEnabled {
		return
	}

	subs, err := s.repo.FindSubsByUserID(ctx, notification.ForID)
	if err != nil {
		log.Printf("failed to load push subscriptions for user %d: %v", notification.ForID, err)
		return
	}

	for _, sub := range subs {
		if err := s.gateway.Send(sub.Data, notification); err != nil {
			log.Printf("push delivery to subscription %s failed: %v", sub.ID, err)
		}
	}
}

// GetNotifications returns everything newer than the caller's read
// watermark. Unless silentRefresh is set, the watermark advances to now.
func (s *notificationService) GetNotifications(ctx context.Context, user *model.User, silentRefresh bool) ([]model.Notification, error) {
	notifications, err := s.repo.FindForUserSince(ctx, user.ID, user.LastRead)
	if err != nil {
		return nil, err
	}

	if !silentRefresh {
		now := time.Now()
		user.LastRead = &now
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return notifications, nil
}

func (s *notificationService) Subscribe(ctx context.Context, userID uint, endpoint string, data []byte) (*model.NotificationSub, error) {
	if !json.Valid(data) {
		return nil, apperror.BadRequest("subscription data must be valid JSON")
	}

	sub := &model.NotificationSub{
		UserID:   userID,
		Endpoint: endpoint,
		Data:     datatypes.JSON(data),
	}
	if err := s.repo.CreateSub(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *notificationService) UpdateSubscription(ctx context.Context, userID uint, id uuid.UUID, endpoint string, data []byte) (*model.NotificationSub, error) {
	sub, err := s.repo.FindSubByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, apperror.Forbidden("you cannot edit another user's subscription")
	}
	if !json.Valid(data) {
		return nil, apperror.BadRequest("subscription data must be valid JSON")
	}

	sub.Endpoint = endpoint
	sub.Data = datatypes.JSON(data)
	if err := s.repo.UpdateSub(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
