package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"skillbridge/internal/domain"
)

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	FindPending(ctx context.Context, teacherID, learnerID, skillID uuid.UUID) (*domain.Match, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Match, int64, error)
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) MatchRepository {
	return &matchRepository{db: db}
}

// uniqueViolation is the Postgres error code raised by the partial unique
// index guarding one outstanding pending match per (teacher, learner, skill).
const uniqueViolation = "23505"

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (match_id, teacher_id, learner_id, skill_id, status, request_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		match.ID, match.TeacherID, match.LearnerID, match.SkillID,
		match.Status, match.RequestMessage,
	).Scan(&match.CreatedAt, &match.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicatePending
	}
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE match_id = $1`

	err := r.db.GetContext(ctx, &match, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) FindPending(ctx context.Context, teacherID, learnerID, skillID uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `
		SELECT * FROM matches
		WHERE teacher_id = $1 AND learner_id = $2 AND skill_id = $3 AND status = 'pending'`

	err := r.db.GetContext(ctx, &match, query, teacherID, learnerID, skillID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateStatus applies a transition only when the match is still in the
// expected source state, so concurrent responders serialize at the store:
// the first valid transition wins and later ones see zero rows affected.
func (r *matchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.MatchStatus) (bool, error) {
	query := `
		UPDATE matches SET status = $1, updated_at = NOW()
		WHERE match_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *matchRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Match, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM matches WHERE teacher_id = $1 OR learner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	type matchRow struct {
		domain.Match
		SkillName        string  `db:"skill_name"`
		SkillCategory    string  `db:"skill_category"`
		TeacherFullName  string  `db:"teacher_full_name"`
		TeacherAvatarURL *string `db:"teacher_avatar_url"`
		LearnerFullName  string  `db:"learner_full_name"`
		LearnerAvatarURL *string `db:"learner_avatar_url"`
	}

	var rows []matchRow
	query := `
		SELECT m.*,
			s.name AS skill_name, s.category AS skill_category,
			t.full_name AS teacher_full_name, t.avatar_url AS teacher_avatar_url,
			l.full_name AS learner_full_name, l.avatar_url AS learner_avatar_url
		FROM matches m
		JOIN skills s ON s.skill_id = m.skill_id
		JOIN users t ON t.user_id = m.teacher_id
		JOIN users l ON l.user_id = m.learner_id
		WHERE m.teacher_id = $1 OR m.learner_id = $1
		ORDER BY m.updated_at DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &rows, query, userID, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		match := row.Match
		match.Skill = &domain.Skill{ID: row.SkillID, Name: row.SkillName, Category: row.SkillCategory}
		match.Teacher = &domain.PublicProfile{ID: row.TeacherID, FullName: row.TeacherFullName, AvatarURL: row.TeacherAvatarURL}
		match.Learner = &domain.PublicProfile{ID: row.LearnerID, FullName: row.LearnerFullName, AvatarURL: row.LearnerAvatarURL}
		matches = append(matches, match)
	}
	return matches, total, nil
}
