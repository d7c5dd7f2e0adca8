package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
	"skillbridge/internal/service/realtime"
)

type Service interface {
	Emit(ctx context.Context, recipientID uuid.UUID, notifType domain.NotificationType, title, message string, payload map[string]string) (*domain.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	MarkRead(ctx context.Context, notificationID, callerID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	Subscribe(userID uuid.UUID) (<-chan domain.Notification, func())
}

type service struct {
	notifRepo repository.NotificationRepository
	hub       realtime.Hub
}

func NewService(notifRepo repository.NotificationRepository, hub realtime.Hub) Service {
	return &service{
		notifRepo: notifRepo,
		hub:       hub,
	}
}

// Emit persists the notification first; the live push is best-effort and a
// push failure is not an error because the durable record is fetched on the
// recipient's next poll or reconnect.
func (s *service) Emit(ctx context.Context, recipientID uuid.UUID, notifType domain.NotificationType, title, message string, payload map[string]string) (*domain.Notification, error) {
	data, _ := json.Marshal(payload)

	notif := &domain.Notification{
		ID:      uuid.New(),
		UserID:  recipientID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    json.RawMessage(data),
	}

	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(notif); err == nil {
		event := realtime.Event{
			Topic:   realtime.UserTopic(recipientID),
			Kind:    realtime.KindNotification,
			Payload: raw,
		}
		if err := s.hub.Publish(ctx, event); err != nil {
			log.Printf("Failed to push notification %s: %v", notif.ID, err)
		}
	}

	return notif, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) MarkRead(ctx context.Context, notificationID, callerID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notif == nil {
		return domain.ErrNotFound
	}

	if notif.UserID != callerID {
		return domain.ErrNotAuthorized
	}

	return s.notifRepo.MarkAsRead(ctx, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// Subscribe delivers notifications created after the subscription starts;
// earlier ones are fetched through List.
func (s *service) Subscribe(userID uuid.UUID) (<-chan domain.Notification, func()) {
	events, cancel := s.hub.Subscribe(realtime.UserTopic(userID))
	out := make(chan domain.Notification, 16)

	go func() {
		defer close(out)
		for event := range events {
			if event.Kind != realtime.KindNotification {
				continue
			}
			var notif domain.Notification
			if err := json.Unmarshal(event.Payload, &notif); err != nil {
				continue
			}
			select {
			case out <- notif:
			default:
			}
		}
	}()

	return out, cancel
}
