package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"skillbridge/internal/domain"
	"skillbridge/internal/service/notification"
	"skillbridge/internal/service/realtime"
	"skillbridge/tests/mocks"
)

func TestNotificationService_Emit(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsAndPushes", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		hub := realtime.NewHub(nil)
		svc := notification.NewService(notifRepo, hub)

		recipientID := uuid.New()
		stream, cancel := svc.Subscribe(recipientID)
		defer cancel()

		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == recipientID && n.Type == domain.NotifMatchRequest && n.Title == "New match request"
		})).Return(nil).Once()

		created, err := svc.Emit(ctx, recipientID, domain.NotifMatchRequest, "New match request", "someone wants to learn", map[string]string{"match_id": uuid.NewString()})

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)

		select {
		case pushed := <-stream:
			assert.Equal(t, created.ID, pushed.ID)
		case <-time.After(time.Second):
			t.Fatal("no notification pushed")
		}
	})

	t.Run("StoreFailureFails", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		hub := new(mocks.Hub)
		svc := notification.NewService(notifRepo, hub)

		notifRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		_, err := svc.Emit(ctx, uuid.New(), domain.NotifNewMessage, "New message", "hi", nil)

		assert.Error(t, err)
		hub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("PushFailureSwallowed", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		hub := new(mocks.Hub)
		svc := notification.NewService(notifRepo, hub)

		notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		hub.On("Publish", ctx, mock.Anything).Return(errors.New("redis down")).Once()

		created, err := svc.Emit(ctx, uuid.New(), domain.NotifNewMessage, "New message", "hi", nil)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		hub.AssertExpectations(t)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	newSvc := func() (*mocks.NotificationRepository, notification.Service) {
		notifRepo := new(mocks.NotificationRepository)
		return notifRepo, notification.NewService(notifRepo, realtime.NewHub(nil))
	}

	t.Run("OwnerMarks", func(t *testing.T) {
		notifRepo, svc := newSvc()
		notif := &domain.Notification{ID: uuid.New(), UserID: ownerID}

		notifRepo.On("GetByID", ctx, notif.ID).Return(notif, nil).Once()
		notifRepo.On("MarkAsRead", ctx, notif.ID).Return(nil).Once()

		assert.NoError(t, svc.MarkRead(ctx, notif.ID, ownerID))
		notifRepo.AssertExpectations(t)
	})

	t.Run("StrangerBlocked", func(t *testing.T) {
		notifRepo, svc := newSvc()
		notif := &domain.Notification{ID: uuid.New(), UserID: ownerID}

		notifRepo.On("GetByID", ctx, notif.ID).Return(notif, nil).Once()

		err := svc.MarkRead(ctx, notif.ID, uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		notifRepo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
	})

	t.Run("Unknown", func(t *testing.T) {
		notifRepo, svc := newSvc()
		id := uuid.New()

		notifRepo.On("GetByID", ctx, id).Return(nil, nil).Once()

		assert.ErrorIs(t, svc.MarkRead(ctx, id, ownerID), domain.ErrNotFound)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, realtime.NewHub(nil))

	notifRepo.On("CountUnread", ctx, userID).Return(int64(5), nil).Once()

	count, err := svc.UnreadCount(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
