package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/briefing-hub/backend/internal/config"
	"github.com/briefing-hub/backend/internal/model"
	"github.com/briefing-hub/backend/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeUserStore struct {
	users map[string]*model.User // keyed by email
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) CreateUser(_ context.Context, externalUUID, name, email string) (*model.User, error) {
	if _, ok := s.users[email]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	u := &model.User{ID: int64(len(s.users) + 1), UUID: externalUUID, Name: name, Email: email}
	s.users[email] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) GetUserByUUID(_ context.Context, externalUUID string) (*model.User, error) {
	for _, u := range s.users {
		if u.UUID == externalUUID {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeUserStore) SetOTP(_ context.Context, email, code string, expiresAt time.Time) (int64, error) {
	u, ok := s.users[email]
	if !ok {
		return 0, nil
	}
	u.OTP = &code
	u.OTPExpiresAt = &expiresAt
	return 1, nil
}

func (s *fakeUserStore) ClearOTP(_ context.Context, userID int64) error {
	for _, u := range s.users {
		if u.ID == userID {
			u.OTP = nil
			u.OTPExpiresAt = nil
		}
	}
	return nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendOTP(to, code string) error {
	m.sent = append(m.sent, to)
	return nil
}

type fakeSettingsStore struct {
	rows map[string]*model.UserSettings
}

func (s *fakeSettingsStore) GetSettings(_ context.Context, externalUUID string) (*model.UserSettings, error) {
	if row, ok := s.rows[externalUUID]; ok {
		return row, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeSettingsStore) UpdateSettings(_ context.Context, externalUUID string, apiKey, geminiModel *string) error {
	row, ok := s.rows[externalUUID]
	if !ok {
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

type fakeTemplateStore struct {
	users     *fakeUserStore
	templates map[int64]*model.BriefingTemplate
}

func (s *fakeTemplateStore) GetUserByUUID(ctx context.Context, externalUUID string) (*model.User, error) {
	return s.users.GetUserByUUID(ctx, externalUUID)
}

func (s *fakeTemplateStore) GetTemplateByUserID(_ context.Context, userID int64) (*model.BriefingTemplate, error) {
	if t, ok := s.templates[userID]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeTemplateStore) UpsertTemplate(_ context.Context, userID int64, title, content string) (*model.BriefingTemplate, error) {
	t := &model.BriefingTemplate{ID: userID, UserID: userID, Title: title, Content: content}
	s.templates[userID] = t
	return t, nil
}

func newTestAuthService(t *testing.T, store service.UserStore, mailer service.OTPMailer) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(store, mailer, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  "1h",
		Env:       config.EnvDevelopment,
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func sessionCookie(t *testing.T, svc *service.AuthService, user *model.User) *http.Cookie {
	t.Helper()
	token, err := svc.SignToken(user, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return &http.Cookie{Name: svc.CookieConfig().Name, Value: token}
}
