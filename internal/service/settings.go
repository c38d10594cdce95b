package service

import (
	"context"

	"github.com/briefing-hub/backend/internal/db"
	"github.com/briefing-hub/backend/internal/model"
)

// SettingsStore is the slice of the persistent store the settings flow uses.
type SettingsStore interface {
	GetSettings(ctx context.Context, externalUUID string) (*model.UserSettings, error)
	UpdateSettings(ctx context.Context, externalUUID string, apiKey, geminiModel *string) error
}

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) Get(ctx context.Context, externalUUID string) (*model.SettingsResponse, error) {
	settings, err := s.store.GetSettings(ctx, externalUUID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return renderSettings(settings), nil
}

// Update writes the provided fields for the given subject. An update against
// a row that no longer exists still succeeds; the zero-row case is
// indistinguishable from a no-op by contract, so the re-read afterwards may
// itself come back empty.
func (s *SettingsService) Update(ctx context.Context, externalUUID string, req model.UpdateSettingsRequest) (*model.SettingsResponse, error) {
	if req.GeminiAPIKey == nil && req.GeminiModel == nil {
		return nil, ErrInvalidInput
	}

	if err := s.store.UpdateSettings(ctx, externalUUID, req.GeminiAPIKey, req.GeminiModel); err != nil {
		return nil, err
	}

	settings, err := s.store.GetSettings(ctx, externalUUID)
	if err != nil {
		if db.IsNoRows(err) {
			// The update matched zero rows; report success with defaults.
			return renderSettings(&model.UserSettings{}), nil
		}
		return nil, err
	}
	return renderSettings(settings), nil
}

func renderSettings(settings *model.UserSettings) *model.SettingsResponse {
	res := &model.SettingsResponse{GeminiModel: model.DefaultGeminiModel}
	if settings.GeminiAPIKey != nil {
		res.GeminiAPIKey = *settings.GeminiAPIKey
	}
	if settings.GeminiModel != nil && *settings.GeminiModel != "" {
		res.GeminiModel = *settings.GeminiModel
	}
	return res
}
