package model

import "time"

type SendOTPRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type SignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthUser is the verified identity the auth middleware injects into the
// request context. UUID is the token subject.
type AuthUser struct {
	UUID  string
	Email string
	Name  string
}

type User struct {
	ID           int64
	UUID         string
	Name         string
	Email        string
	OTP          *string
	OTPExpiresAt *time.Time
	GeminiAPIKey *string
	GeminiModel  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
