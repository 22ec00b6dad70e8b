package notification

import (
	"Fridge-Management-Backend/domain"
	"Fridge-Management-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	NotificationService interface {
		GetNotifications(ctx context.Context, userID string) ([]domain.NotificationResponse, error)
		MarkRead(ctx context.Context, notificationID string, userID string) error
		UpdatePreference(ctx context.Context, req domain.UpdatePreferenceRequest, userID string) error
	}

	notificationService struct {
		notificationRepository NotificationRepository
	}
)

func NewNotificationService(notificationRepository NotificationRepository) NotificationService {
	return &notificationService{notificationRepository: notificationRepository}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string) ([]domain.NotificationResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	notifications, err := s.notificationRepository.GetNotificationsByUser(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, domain.NotificationResponse{
			ID:        n.ID.String(),
			KindCode:  n.KindCode,
			Title:     n.Title,
			Body:      n.Body,
			Metadata:  n.Metadata,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return responses, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string, userID string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return domain.ErrParseUUID
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	if err := s.notificationRepository.MarkRead(ctx, id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewError(404, "NOTIFICATION_NOT_FOUND", "notification not found")
		}
		return err
	}
	return nil
}

func (s *notificationService) UpdatePreference(ctx context.Context, req domain.UpdatePreferenceRequest, userID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	pref := &entities.NotificationPreference{
		ID:       uuid.New(),
		UserID:   uid,
		KindCode: req.KindCode,
		Enabled:  *req.Enabled,
	}
	return s.notificationRepository.UpsertPreference(ctx, pref)
}
