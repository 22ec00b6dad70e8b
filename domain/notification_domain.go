package domain

import "time"

var (
	MessageSuccessGetNotifications  = "notifications retrieved successfully"
	MessageSuccessMarkRead          = "notification marked as read"
	MessageSuccessUpdatePreference  = "notification preference updated"

	MessageFailedGetNotifications = "failed to retrieve notifications"
	MessageFailedMarkRead         = "failed to mark notification as read"
	MessageFailedUpdatePreference = "failed to update notification preference"
)

type (
	NotificationResponse struct {
		ID        string    `json:"id"`
		KindCode  string    `json:"kind_code"`
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		Metadata  string    `json:"metadata,omitempty"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	UpdatePreferenceRequest struct {
		KindCode string `json:"kind_code" validate:"required"`
		Enabled  *bool  `json:"enabled" validate:"required"`
	}
)
