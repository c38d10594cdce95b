package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/briefing-hub/backend/internal/model"
	"github.com/gin-gonic/gin"
)

func newGatedRouter(t *testing.T) (*gin.Engine, *fakeUserStore, *AuthHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeUserStore(&model.User{ID: 1, UUID: "u-1", Name: "Ada", Email: "a@b.com"})
	svc := newTestAuthService(t, store, &fakeMailer{})
	auth := NewAuthHandler(svc)

	r := gin.New()
	r.GET("/auth/me", AuthMiddleware(svc), auth.Me)
	return r, store, auth
}

func TestAuthMiddlewareNoCookie(t *testing.T) {
	r, _, _ := newGatedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	r, _, _ := newGatedRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-token"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeUserStore(&model.User{ID: 1, UUID: "u-1", Name: "Ada", Email: "a@b.com"})
	svc := newTestAuthService(t, store, &fakeMailer{})
	auth := NewAuthHandler(svc)

	r := gin.New()
	r.GET("/auth/me", AuthMiddleware(svc), auth.Me)

	token, err := svc.SignToken(&model.User{UUID: "u-1", Email: "a@b.com"}, -time.Second)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func newCORSRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(origins, true))
	r.GET("/ping", Ping)
	return r
}

func TestCORSMiddlewareAllowedOrigin(t *testing.T) {
	r := newCORSRouter(t, []string{"https://app.example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected origin echoed back, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("expected Vary: Origin, got %q", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := newCORSRouter(t, []string{"https://app.example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected allowed methods on preflight")
	}
}

func TestCORSMiddlewareUnknownOrigin(t *testing.T) {
	r := newCORSRouter(t, []string{"https://app.example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for an unknown origin, got %q", got)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeUserStore(&model.User{ID: 1, UUID: "u-1", Name: "Ada", Email: "a@b.com"})
	svc := newTestAuthService(t, store, &fakeMailer{})

	r := gin.New()
	r.GET("/whoami", AuthMiddleware(svc), func(c *gin.Context) {
		user := GetAuthUser(c)
		if user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uuid": user.UUID})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(sessionCookie(t, svc, &model.User{UUID: "u-1", Name: "Ada", Email: "a@b.com"}))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"uuid":"u-1"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}
