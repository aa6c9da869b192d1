package dto

import (
	"time"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
)

// ListNotificationsParams holds the notification list query parameters.
type ListNotificationsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// NotificationResponse is the API representation of a notification.
type NotificationResponse struct {
	NotificationID string                  `json:"notificationID"`
	Type           domain.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	RelatedID      string                  `json:"relatedID,omitempty"`
	RelatedType    string                  `json:"relatedType,omitempty"`
	Data           map[string]any          `json:"data,omitempty"`
	IsRead         bool                    `json:"isRead"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// ListNotificationsResponse is the paginated notification list payload.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// ToNotificationResponse converts a domain.Notification to its API representation.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		RelatedID:      n.RelatedID,
		RelatedType:    n.RelatedType,
		Data:           n.Data,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications.
func ToNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses
}
