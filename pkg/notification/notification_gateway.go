package notification

import (
	"Fridge-Management-Backend/entities"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// NotificationGateway is fire-and-forget: it never returns an error to the
	// triggering operation. A dispatch failure is logged and recorded as a
	// failure-marker notification instead.
	NotificationGateway interface {
		Notify(ctx context.Context, userID uuid.UUID, kindCode, title, body, dedupeKey, metadata string, ttlHours int)
	}

	// PreferenceGateway answers whether a user wants a notification kind.
	// Absent preference rows mean enabled.
	PreferenceGateway interface {
		IsEnabled(ctx context.Context, userID uuid.UUID, kindCode string) bool
	}

	// Mailer mirrors a notification to an email channel. Nil disables email.
	Mailer interface {
		Send(toEmail, subject, body string) error
	}

	notificationGateway struct {
		notificationRepository NotificationRepository
		mailer                 Mailer
		now                    func() time.Time
	}
)

func NewNotificationGateway(notificationRepository NotificationRepository, mailer Mailer) NotificationGateway {
	return &notificationGateway{
		notificationRepository: notificationRepository,
		mailer:                 mailer,
		now:                    time.Now,
	}
}

func (g *notificationGateway) Notify(ctx context.Context, userID uuid.UUID, kindCode, title, body, dedupeKey, metadata string, ttlHours int) {
	exists, err := g.notificationRepository.ExistsByDedupeKey(ctx, dedupeKey)
	if err != nil {
		g.recordFailure(ctx, userID, dedupeKey, err)
		return
	}
	if exists {
		return
	}

	n := &entities.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		KindCode:  kindCode,
		Title:     title,
		Body:      body,
		DedupeKey: dedupeKey,
		Metadata:  metadata,
	}
	if ttlHours > 0 {
		expires := g.now().Add(time.Duration(ttlHours) * time.Hour)
		n.ExpiresAt = &expires
	}

	if err := g.notificationRepository.CreateNotification(ctx, n); err != nil {
		// The unique index on dedupe_key closes the check-then-create race; a
		// duplicate here means another submit already notified this user.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return
		}
		g.recordFailure(ctx, userID, dedupeKey, err)
		return
	}

	if g.mailer == nil {
		return
	}
	email, err := g.notificationRepository.GetUserEmail(ctx, userID)
	if err != nil || email == "" {
		if err != nil {
			log.Printf("[NotificationGateway] email lookup failed for %s: %v", userID, err)
		}
		return
	}
	if err := g.mailer.Send(email, title, body); err != nil {
		g.recordFailure(ctx, userID, dedupeKey, err)
	}
}

func (g *notificationGateway) recordFailure(ctx context.Context, userID uuid.UUID, dedupeKey string, cause error) {
	log.Printf("[NotificationGateway] dispatch failed for %s (%s): %v", userID, dedupeKey, cause)

	marker := &entities.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		KindCode:  entities.NotificationKindDispatchFailed,
		Title:     "notification delivery failed",
		Body:      cause.Error(),
		DedupeKey: fmt.Sprintf("%s/dispatch-failure", dedupeKey),
	}
	if err := g.notificationRepository.CreateNotification(ctx, marker); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("[NotificationGateway] failed to record dispatch failure: %v", err)
	}
}

type preferenceGateway struct {
	notificationRepository NotificationRepository
}

func NewPreferenceGateway(notificationRepository NotificationRepository) PreferenceGateway {
	return &preferenceGateway{notificationRepository: notificationRepository}
}

func (g *preferenceGateway) IsEnabled(ctx context.Context, userID uuid.UUID, kindCode string) bool {
	pref, err := g.notificationRepository.GetPreference(ctx, userID, kindCode)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[PreferenceGateway] lookup failed for %s/%s: %v", userID, kindCode, err)
		}
		return true
	}
	return pref.Enabled
}
