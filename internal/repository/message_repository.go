package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"skillbridge/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	ListByMatch(ctx context.Context, matchID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
	MarkRead(ctx context.Context, matchID, readerID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, matchID, userID uuid.UUID) (int64, error)
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create assigns seq from the store sequence; per-match order is defined by
// seq alone. A caller-provided created_at is honored so the lifecycle engine
// can keep the acceptance system message strictly after the seeded request.
func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (message_id, match_id, sender_id, type, body, file_name, file_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING seq, created_at`

	var createdAt interface{}
	if !message.CreatedAt.IsZero() {
		createdAt = message.CreatedAt
	}

	return r.db.QueryRowxContext(ctx, query,
		message.ID, message.MatchID, message.SenderID, message.Type,
		message.Body, message.FileName, message.FileURL, createdAt,
	).Scan(&message.Seq, &message.CreatedAt)
}

func (r *messageRepository) ListByMatch(ctx context.Context, matchID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM messages WHERE match_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, matchID); err != nil {
		return nil, 0, err
	}

	var messages []domain.Message
	query := `
		SELECT * FROM messages
		WHERE match_id = $1
		ORDER BY seq
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &messages, query, matchID, params.PageSize, params.Offset())
	return messages, total, err
}

// MarkRead is one-way and idempotent: it only touches counterpart messages
// that are still unread.
func (r *messageRepository) MarkRead(ctx context.Context, matchID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages SET read_at = NOW()
		WHERE match_id = $1 AND sender_id <> $2 AND read_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, matchID, readerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *messageRepository) CountUnread(ctx context.Context, matchID, userID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM messages
		WHERE match_id = $1 AND sender_id <> $2 AND read_at IS NULL`
	err := r.db.GetContext(ctx, &count, query, matchID, userID)
	return count, err
}

func (r *messageRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM messages msg
		JOIN matches m ON m.match_id = msg.match_id
		WHERE (m.teacher_id = $1 OR m.learner_id = $1)
			AND msg.sender_id <> $1 AND msg.read_at IS NULL`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
