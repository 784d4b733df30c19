package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/repository"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, userID uint, limit, offset int) ([]*model.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// NotificationChannel is the Redis pub/sub channel a user's live
// notification stream is published on.
func NotificationChannel(userID uint) string {
	return fmt.Sprintf("user_notifications:%d", userID)
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, NotificationChannel(notification.UserID), payload)
		}
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, userID uint, limit, offset int) ([]*model.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uint) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
