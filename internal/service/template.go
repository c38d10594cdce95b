package service

import (
	"context"
	"strings"

	"github.com/briefing-hub/backend/internal/db"
	"github.com/briefing-hub/backend/internal/model"
)

// TemplateStore covers the briefing-template rows plus the user lookup
// needed to resolve a token subject to an internal id.
type TemplateStore interface {
	GetUserByUUID(ctx context.Context, externalUUID string) (*model.User, error)
	GetTemplateByUserID(ctx context.Context, userID int64) (*model.BriefingTemplate, error)
	UpsertTemplate(ctx context.Context, userID int64, title, content string) (*model.BriefingTemplate, error)
}

type TemplateService struct {
	store TemplateStore
}

func NewTemplateService(store TemplateStore) *TemplateService {
	return &TemplateService{store: store}
}

func (s *TemplateService) Get(ctx context.Context, externalUUID string) (*model.BriefingTemplate, error) {
	user, err := s.store.GetUserByUUID(ctx, externalUUID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tmpl, err := s.store.GetTemplateByUserID(ctx, user.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tmpl, nil
}

func (s *TemplateService) Upsert(ctx context.Context, externalUUID string, req model.UpsertTemplateRequest) (*model.BriefingTemplate, error) {
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.GetUserByUUID(ctx, externalUUID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.store.UpsertTemplate(ctx, user.ID, req.Title, req.Content)
}
