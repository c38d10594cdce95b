package model

// DefaultGeminiModel is returned when the user never picked a model.
const DefaultGeminiModel = "gemini-pro"

type UserSettings struct {
	GeminiAPIKey *string
	GeminiModel  *string
}

type SettingsResponse struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model"`
}

// UpdateSettingsRequest uses pointers so "field absent" and "field set to
// empty string" stay distinguishable; only present fields are written.
type UpdateSettingsRequest struct {
	GeminiAPIKey *string `json:"gemini_api_key"`
	GeminiModel  *string `json:"gemini_model"`
}
