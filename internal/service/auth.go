package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/briefing-hub/backend/internal/config"
	"github.com/briefing-hub/backend/internal/db"
	"github.com/briefing-hub/backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sessionCookieName = "auth_token"
	otpTTL            = 10 * time.Minute
	otpMin            = 100000
	otpMax            = 999999

	// Never used outside APP_ENV=development; Config.Validate refuses to
	// start a non-development process without a real secret.
	devFallbackSecret = "insecure-dev-secret"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrMisconfigured = errors.New("auth config invalid")

	// Token verification failures stay distinct internally; handlers
	// collapse both into the same 401 body.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// UserStore is the slice of the persistent store the auth flow touches.
type UserStore interface {
	CreateUser(ctx context.Context, externalUUID, name, email string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUUID(ctx context.Context, externalUUID string) (*model.User, error)
	SetOTP(ctx context.Context, email, code string, expiresAt time.Time) (int64, error)
	ClearOTP(ctx context.Context, userID int64) error
}

// OTPMailer delivers a one-time code. Fire-and-forget, no retry.
type OTPMailer interface {
	SendOTP(to, code string) error
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type AuthService struct {
	store     UserStore
	mailer    OTPMailer
	jwtSecret []byte
	tokenTTL  time.Duration
	cookieCfg CookieConfig
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func NewAuthService(store UserStore, mailer OTPMailer, cfg config.AuthConfig) (*AuthService, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.Env != config.EnvDevelopment {
			return nil, fmt.Errorf("%w: AUTH_JWT_SECRET is required", ErrMisconfigured)
		}
		secret = devFallbackSecret
	}

	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid AUTH_TOKEN_TTL", ErrMisconfigured)
	}

	return &AuthService{
		store:     store,
		mailer:    mailer,
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
		cookieCfg: CookieConfig{
			Name:     sessionCookieName,
			Path:     "/",
			Secure:   cfg.Env != config.EnvDevelopment,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   int(tokenTTL.Seconds()),
		},
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// SendOTP stores a fresh code for the user matching email and mails it out.
// The code is persisted before delivery is attempted: a delivery failure
// surfaces as an error even though the code is already in place.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	rows, err := s.store.SetOTP(ctx, email, code, time.Now().Add(otpTTL))
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}
	return nil
}

// Login completes the passwordless flow: the submitted code must match the
// stored one and still be inside its validity window. The code is cleared on
// success and a signed session token is returned.
func (s *AuthService) Login(ctx context.Context, email, otp string) (*model.User, string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
		return nil, "", ErrInvalidInput
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if user.OTP == nil || *user.OTP != otp {
		return nil, "", ErrUnauthorized
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return nil, "", ErrUnauthorized
	}

	if err := s.store.ClearOTP(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.SignToken(user, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Signup(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.store.CreateUser(ctx, uuid.NewString(), name, email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// GetProfile re-reads the full user row for the verified subject.
func (s *AuthService) GetProfile(ctx context.Context, externalUUID string) (*model.User, error) {
	user, err := s.store.GetUserByUUID(ctx, externalUUID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// SignToken mints a stateless HS256 session token whose subject is the
// user's external UUID. Nothing is persisted; logout is cookie clearing.
func (s *AuthService) SignToken(user *model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies signature and expiry. Expiry and any other invalidity
// come back as distinct errors so callers can log the difference, but both
// must be answered with the same opaque 401.
func (s *AuthService) ParseToken(tokenStr string) (*model.AuthUser, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &model.AuthUser{
		UUID:  claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
