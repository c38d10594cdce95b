package db

import (
	"context"
	"time"

	"github.com/briefing-hub/backend/internal/model"
)

const userColumns = `id, uuid, name, email, otp, otp_expires_at, gemini_api_key, gemini_model, created_at, updated_at`

func (db *Postgres) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			otp TEXT,
			otp_expires_at TIMESTAMPTZ,
			gemini_api_key TEXT,
			gemini_model TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`
		CREATE TABLE IF NOT EXISTS briefing_templates (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Postgres) CreateUser(ctx context.Context, externalUUID, name, email string) (*model.User, error) {
	query := `
		INSERT INTO users (uuid, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns
	return db.scanUser(db.Pool.QueryRow(ctx, query, externalUUID, name, email))
}

func (db *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return db.scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetUserByUUID(ctx context.Context, externalUUID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	return db.scanUser(db.Pool.QueryRow(ctx, query, externalUUID))
}

// SetOTP stores a fresh one-time code for the user matching email and returns
// the number of rows touched. Zero rows means the email is unknown; the last
// write wins when two issuances race.
func (db *Postgres) SetOTP(ctx context.Context, email, code string, expiresAt time.Time) (int64, error) {
	query := `
		UPDATE users
		SET otp = $1, otp_expires_at = $2, updated_at = NOW()
		WHERE email = $3
	`
	tag, err := db.Pool.Exec(ctx, query, code, expiresAt, email)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (db *Postgres) ClearOTP(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET otp = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID)
	return err
}

func (db *Postgres) GetSettings(ctx context.Context, externalUUID string) (*model.UserSettings, error) {
	query := `SELECT gemini_api_key, gemini_model FROM users WHERE uuid = $1`
	var s model.UserSettings
	err := db.Pool.QueryRow(ctx, query, externalUUID).Scan(&s.GeminiAPIKey, &s.GeminiModel)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings writes only the non-nil fields. An update matching zero rows
// is not an error; callers that care re-read the row afterwards.
func (db *Postgres) UpdateSettings(ctx context.Context, externalUUID string, apiKey, geminiModel *string) error {
	query := `
		UPDATE users
		SET gemini_api_key = COALESCE($1, gemini_api_key),
		    gemini_model = COALESCE($2, gemini_model),
		    updated_at = NOW()
		WHERE uuid = $3
	`
	_, err := db.Pool.Exec(ctx, query, apiKey, geminiModel, externalUUID)
	return err
}

func (db *Postgres) scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.UUID,
		&u.Name,
		&u.Email,
		&u.OTP,
		&u.OTPExpiresAt,
		&u.GeminiAPIKey,
		&u.GeminiModel,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
