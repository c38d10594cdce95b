package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/briefing-hub/backend/internal/model"
	"github.com/briefing-hub/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Handle dispatches on method so the 405 answer can carry the Allow header.
func (h *SettingsHandler) Handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.get(c)
	case http.MethodPost:
		h.update(c)
	default:
		methodNotAllowed(c, http.MethodGet, http.MethodPost)
	}
}

// get godoc
// @Summary Get user settings
// @Tags settings
// @Produce json
// @Success 200 {object} model.SettingsResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /settings [get]
func (h *SettingsHandler) get(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	settings, err := h.svc.Get(c.Request.Context(), user.UUID)
	if err != nil {
		writeSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// update godoc
// @Summary Update user settings
// @Description Writes only the fields present in the body. Updating a row
// that no longer exists is reported as success, matching the stored-but-gone
// subject case left open by the contract.
// @Tags settings
// @Accept json
// @Produce json
// @Param request body model.UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} model.SettingsResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /settings [post]
func (h *SettingsHandler) update(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), user.UUID, req)
	if err != nil {
		writeSettingsError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func writeSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no settings provided to update"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		log.Printf("settings: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
