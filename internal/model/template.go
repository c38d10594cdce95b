package model

import "time"

// BriefingTemplate is one-to-one with a user and upserted by user id.
type BriefingTemplate struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertTemplateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
