package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"skillbridge/internal/domain"
)

type SkillRepository interface {
	ListSkills(ctx context.Context) ([]domain.Skill, error)
	GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error)
	UpsertDeclaration(ctx context.Context, declaration *domain.UserSkill) error
	ListDeclarationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserSkill, error)
	GetDeclaration(ctx context.Context, id uuid.UUID) (*domain.UserSkill, error)
	DeleteDeclaration(ctx context.Context, id uuid.UUID) error
	FindTeachers(ctx context.Context, skillID, excludeUserID uuid.UUID) ([]domain.UserSkill, error)
}

type skillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	var skills []domain.Skill
	query := `SELECT * FROM skills ORDER BY category, name`
	err := r.db.SelectContext(ctx, &skills, query)
	return skills, err
}

func (r *skillRepository) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	var skill domain.Skill
	query := `SELECT * FROM skills WHERE skill_id = $1`

	err := r.db.GetContext(ctx, &skill, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// UpsertDeclaration enforces the one-declaration-per-(user, skill, role)
// invariant at the store: a re-declaration updates level and note in place.
func (r *skillRepository) UpsertDeclaration(ctx context.Context, declaration *domain.UserSkill) error {
	query := `
		INSERT INTO user_skills (user_skill_id, user_id, skill_id, role, level, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, skill_id, role)
		DO UPDATE SET level = EXCLUDED.level, note = EXCLUDED.note
		RETURNING user_skill_id, created_at`

	return r.db.QueryRowxContext(ctx, query,
		declaration.ID, declaration.UserID, declaration.SkillID,
		declaration.Role, declaration.Level, declaration.Note,
	).Scan(&declaration.ID, &declaration.CreatedAt)
}

func (r *skillRepository) ListDeclarationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserSkill, error) {
	type declarationRow struct {
		domain.UserSkill
		SkillName     string `db:"skill_name"`
		SkillCategory string `db:"skill_category"`
	}

	var rows []declarationRow
	query := `
		SELECT us.*, s.name AS skill_name, s.category AS skill_category
		FROM user_skills us
		JOIN skills s ON s.skill_id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY us.created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	declarations := make([]domain.UserSkill, 0, len(rows))
	for _, row := range rows {
		declaration := row.UserSkill
		declaration.Skill = &domain.Skill{ID: row.SkillID, Name: row.SkillName, Category: row.SkillCategory}
		declarations = append(declarations, declaration)
	}
	return declarations, nil
}

func (r *skillRepository) GetDeclaration(ctx context.Context, id uuid.UUID) (*domain.UserSkill, error) {
	var declaration domain.UserSkill
	query := `SELECT * FROM user_skills WHERE user_skill_id = $1`

	err := r.db.GetContext(ctx, &declaration, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &declaration, nil
}

func (r *skillRepository) DeleteDeclaration(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM user_skills WHERE user_skill_id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// FindTeachers ranks teach-role declarations for a skill by proficiency,
// then by declaration recency. The requesting user is excluded.
func (r *skillRepository) FindTeachers(ctx context.Context, skillID, excludeUserID uuid.UUID) ([]domain.UserSkill, error) {
	type teacherRow struct {
		domain.UserSkill
		UserFullName  string  `db:"user_full_name"`
		UserAvatarURL *string `db:"user_avatar_url"`
	}

	var rows []teacherRow
	query := `
		SELECT us.*, u.full_name AS user_full_name, u.avatar_url AS user_avatar_url
		FROM user_skills us
		JOIN users u ON u.user_id = us.user_id AND u.deleted_at IS NULL AND u.is_active
		WHERE us.skill_id = $1 AND us.role = 'teach' AND us.user_id <> $2
		ORDER BY us.level DESC, us.created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, skillID, excludeUserID); err != nil {
		return nil, err
	}

	teachers := make([]domain.UserSkill, 0, len(rows))
	for _, row := range rows {
		teacher := row.UserSkill
		teacher.User = &domain.PublicProfile{ID: row.UserID, FullName: row.UserFullName, AvatarURL: row.UserAvatarURL}
		teachers = append(teachers, teacher)
	}
	return teachers, nil
}
