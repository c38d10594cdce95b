package service

import (
	"context"
	"testing"

	"github.com/briefing-hub/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsStore struct {
	rows    map[string]*model.UserSettings
	updates int
}

func (s *fakeSettingsStore) GetSettings(_ context.Context, externalUUID string) (*model.UserSettings, error) {
	if row, ok := s.rows[externalUUID]; ok {
		return row, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeSettingsStore) UpdateSettings(_ context.Context, externalUUID string, apiKey, geminiModel *string) error {
	s.updates++
	row, ok := s.rows[externalUUID]
	if !ok {
		// Zero rows matched; still no error, matching UPDATE semantics.
		return nil
	}
	if apiKey != nil {
		row.GeminiAPIKey = apiKey
	}
	if geminiModel != nil {
		row.GeminiModel = geminiModel
	}
	return nil
}

func strptr(s string) *string { return &s }

func TestSettingsGetDefaults(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]*model.UserSettings{"u-1": {}}}
	svc := NewSettingsService(store)

	got, err := svc.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "", got.GeminiAPIKey)
	assert.Equal(t, model.DefaultGeminiModel, got.GeminiModel)
}

func TestSettingsGetUnknownUser(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsStore{rows: map[string]*model.UserSettings{}})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingsUpdate(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]*model.UserSettings{"u-1": {}}}
	svc := NewSettingsService(store)

	got, err := svc.Update(context.Background(), "u-1", model.UpdateSettingsRequest{
		GeminiAPIKey: strptr("key-123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "key-123", got.GeminiAPIKey)
	assert.Equal(t, model.DefaultGeminiModel, got.GeminiModel)

	got, err = svc.Update(context.Background(), "u-1", model.UpdateSettingsRequest{
		GeminiModel: strptr("gemini-1.5-pro"),
	})
	require.NoError(t, err)
	assert.Equal(t, "key-123", got.GeminiAPIKey)
	assert.Equal(t, "gemini-1.5-pro", got.GeminiModel)
}

func TestSettingsUpdateNoFields(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]*model.UserSettings{"u-1": {}}}
	svc := NewSettingsService(store)

	_, err := svc.Update(context.Background(), "u-1", model.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, store.updates)
}

// An update for a subject whose row is gone reports success; pinned as
// current behavior rather than silently fixed.
func TestSettingsUpdateUnknownUserIsNoOp(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]*model.UserSettings{}}
	svc := NewSettingsService(store)

	got, err := svc.Update(context.Background(), "missing", model.UpdateSettingsRequest{
		GeminiAPIKey: strptr("key-123"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, "", got.GeminiAPIKey)
}
