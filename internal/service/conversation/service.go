package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"skillbridge/internal/config"
	"skillbridge/internal/domain"
	"skillbridge/internal/repository"
	"skillbridge/internal/service/notification"
	"skillbridge/internal/service/realtime"
)

type Service interface {
	Send(ctx context.Context, matchID, senderID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error)
	SendFile(ctx context.Context, matchID, senderID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Message, error)
	History(ctx context.Context, matchID, callerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
	MarkRead(ctx context.Context, matchID, readerID uuid.UUID) error
	UnreadCount(ctx context.Context, matchID, userID uuid.UUID) (int64, error)
	TotalUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Subscribe(ctx context.Context, matchID, participantID uuid.UUID) (<-chan domain.Message, func(), error)
}

type service struct {
	matchRepo   repository.MatchRepository
	messageRepo repository.MessageRepository
	notifSvc    notification.Service
	hub         realtime.Hub
	minioClient *minio.Client
	cfg         *config.Config
}

func NewService(
	matchRepo repository.MatchRepository,
	messageRepo repository.MessageRepository,
	notifSvc notification.Service,
	hub realtime.Hub,
	minioClient *minio.Client,
	cfg *config.Config,
) Service {
	return &service{
		matchRepo:   matchRepo,
		messageRepo: messageRepo,
		notifSvc:    notifSvc,
		hub:         hub,
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *service) Send(ctx context.Context, matchID, senderID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error) {
	match, err := s.guardSender(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:       uuid.New(),
		MatchID:  matchID,
		SenderID: senderID,
		Type:     domain.MessageText,
		Body:     input.Body,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.fanOut(ctx, match, message)

	return message, nil
}

// SendFile stores the attachment in object storage and records a file-typed
// message pointing at it.
func (s *service) SendFile(ctx context.Context, matchID, senderID uuid.UUID, fileName string, fileSize int64, mimeType string, reader io.Reader) (*domain.Message, error) {
	match, err := s.guardSender(ctx, matchID, senderID)
	if err != nil {
		return nil, err
	}

	messageID := uuid.New()
	storagePath := fmt.Sprintf("attachments/%s/%s/%s", matchID, messageID, fileName)

	_, err = s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	fileURL, err := s.presignURL(ctx, storagePath)
	if err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	message := &domain.Message{
		ID:       messageID,
		MatchID:  matchID,
		SenderID: senderID,
		Type:     domain.MessageFile,
		Body:     fileName,
		FileName: &fileName,
		FileURL:  &fileURL,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		_ = s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
		return nil, err
	}

	s.fanOut(ctx, match, message)

	return message, nil
}

func (s *service) History(ctx context.Context, matchID, callerID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	if match == nil {
		return domain.PaginatedResponse[domain.Message]{}, domain.ErrNotFound
	}
	if !match.HasParticipant(callerID) {
		return domain.PaginatedResponse[domain.Message]{}, domain.ErrNotParticipant
	}

	messages, total, err := s.messageRepo.ListByMatch(ctx, matchID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}

	return domain.NewPaginatedResponse(messages, params.Page, params.PageSize, total), nil
}

// MarkRead flips every unread counterpart message to read. Repeat calls are
// no-ops and a reader never marks their own messages.
func (s *service) MarkRead(ctx context.Context, matchID, readerID uuid.UUID) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match == nil {
		return domain.ErrNotFound
	}
	if !match.HasParticipant(readerID) {
		return domain.ErrNotParticipant
	}

	_, err = s.messageRepo.MarkRead(ctx, matchID, readerID)
	return err
}

func (s *service) UnreadCount(ctx context.Context, matchID, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, matchID, userID)
}

func (s *service) TotalUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.messageRepo.CountUnreadForUser(ctx, userID)
}

// Subscribe streams messages appended after the subscription starts, in
// creation order. History is fetched separately; cancelling only stops
// delivery.
func (s *service) Subscribe(ctx context.Context, matchID, participantID uuid.UUID) (<-chan domain.Message, func(), error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if match == nil {
		return nil, nil, domain.ErrNotFound
	}
	if !match.HasParticipant(participantID) {
		return nil, nil, domain.ErrNotParticipant
	}

	events, cancel := s.hub.Subscribe(realtime.MatchTopic(matchID))
	out := make(chan domain.Message, 16)

	go func() {
		defer close(out)
		for event := range events {
			if event.Kind != realtime.KindMessage {
				continue
			}
			var message domain.Message
			if err := json.Unmarshal(event.Payload, &message); err != nil {
				continue
			}
			select {
			case out <- message:
			default:
			}
		}
	}()

	return out, cancel, nil
}

// guardSender enforces the channel access rules: only participants may send,
// and only once the teacher has accepted. Terminal states keep history
// readable; a completed match still accepts messages, a cancelled one does
// not.
func (s *service) guardSender(ctx context.Context, matchID, senderID uuid.UUID) (*domain.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}

	if !match.HasParticipant(senderID) {
		return nil, domain.ErrNotParticipant
	}

	if match.Status != domain.MatchAccepted && match.Status != domain.MatchCompleted {
		return nil, domain.ErrChannelNotOpen
	}

	return match, nil
}

func (s *service) fanOut(ctx context.Context, match *domain.Match, message *domain.Message) {
	if raw, err := json.Marshal(message); err == nil {
		event := realtime.Event{
			Topic:   realtime.MatchTopic(match.ID),
			Kind:    realtime.KindMessage,
			Payload: raw,
		}
		if err := s.hub.Publish(ctx, event); err != nil {
			log.Printf("Failed to push message %s: %v", message.ID, err)
		}
	}

	recipient := match.Counterpart(message.SenderID)
	payload := map[string]string{
		"match_id":   match.ID.String(),
		"message_id": message.ID.String(),
	}
	preview := message.Body
	if len(preview) > 80 {
		preview = preview[:80]
	}
	if _, err := s.notifSvc.Emit(ctx, recipient, domain.NotifNewMessage, "New message", preview, payload); err != nil {
		log.Printf("Failed to notify recipient %s of message %s: %v", recipient, message.ID, err)
	}
}

func (s *service) presignURL(ctx context.Context, storagePath string) (string, error) {
	presigned, err := s.minioClient.PresignedGetObject(ctx, s.cfg.MinIOBucket, storagePath, 7*24*time.Hour, nil)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
