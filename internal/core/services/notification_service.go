package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
)

type notificationService struct {
	notificationRepo portsrepo.NotificationRepository
}

// NewNotificationService creates the in-app notification service.
func NewNotificationService(repos portsrepo.RepositoryProvider) portssvc.NotificationSvcFacade {
	return &notificationService{notificationRepo: repos.NotificationRepo}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) CreateNotification(ctx context.Context, userID string, nType domain.NotificationType, title, message, relatedID, relatedType string, data map[string]any) error {
	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Type:           nType,
		Title:          title,
		Message:        message,
		RelatedID:      relatedID,
		RelatedType:    relatedType,
		Data:           data,
		CreatedAt:      time.Now(),
	}
	return s.notificationRepo.SaveNotification(ctx, notification)
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, params dto.ListNotificationsParams) (*dto.ListNotificationsResponse, error) {
	notifications, nextToken, err := s.notificationRepo.ListNotificationsByUser(ctx, userID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListNotificationsResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		NextToken:     nextToken,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string, userID string) error {
	return s.notificationRepo.MarkNotificationRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllNotificationsRead(ctx, userID)
}
