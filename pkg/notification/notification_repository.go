package notification

import (
	"Fridge-Management-Backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	NotificationRepository interface {
		WithTx(tx *gorm.DB) NotificationRepository

		ExistsByDedupeKey(ctx context.Context, dedupeKey string) (bool, error)
		CreateNotification(ctx context.Context, n *entities.Notification) error
		GetNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

		GetPreference(ctx context.Context, userID uuid.UUID, kindCode string) (*entities.NotificationPreference, error)
		UpsertPreference(ctx context.Context, pref *entities.NotificationPreference) error

		GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error)
	}

	notificationRepository struct {
		db *gorm.DB
	}
)

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) ExistsByDedupeKey(ctx context.Context, dedupeKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("dedupe_key = ?", dedupeKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n *entities.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) GetNotificationsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Notification, error) {
	var notifications []*entities.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) GetPreference(ctx context.Context, userID uuid.UUID, kindCode string) (*entities.NotificationPreference, error) {
	var pref entities.NotificationPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind_code = ?", userID, kindCode).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *notificationRepository) UpsertPreference(ctx context.Context, pref *entities.NotificationPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(pref).Error
}

func (r *notificationRepository) GetUserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Pluck("email", &email).Error; err != nil {
		return "", err
	}
	return email, nil
}
