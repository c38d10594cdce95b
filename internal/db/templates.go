package db

import (
	"context"

	"github.com/briefing-hub/backend/internal/model"
)

func (db *Postgres) GetTemplateByUserID(ctx context.Context, userID int64) (*model.BriefingTemplate, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM briefing_templates
		WHERE user_id = $1
	`
	var t model.BriefingTemplate
	err := db.Pool.QueryRow(ctx, query, userID).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Content,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpsertTemplate inserts or replaces the single template a user owns.
func (db *Postgres) UpsertTemplate(ctx context.Context, userID int64, title, content string) (*model.BriefingTemplate, error) {
	query := `
		INSERT INTO briefing_templates (user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content, updated_at = NOW()
		RETURNING id, user_id, title, content, created_at, updated_at
	`
	var t model.BriefingTemplate
	err := db.Pool.QueryRow(ctx, query, userID, title, content).Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Content,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
