package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/briefing-hub/backend/internal/model"
	"github.com/briefing-hub/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) Handle(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.get(c)
	case http.MethodPut:
		h.upsert(c)
	default:
		methodNotAllowed(c, http.MethodGet, http.MethodPut)
	}
}

// get godoc
// @Summary Get the user's briefing template
// @Tags briefing-template
// @Produce json
// @Success 200 {object} model.BriefingTemplate
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /briefing-template [get]
func (h *TemplateHandler) get(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	tmpl, err := h.svc.Get(c.Request.Context(), user.UUID)
	if err != nil {
		writeTemplateError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

// upsert godoc
// @Summary Create or replace the user's briefing template
// @Tags briefing-template
// @Accept json
// @Produce json
// @Param request body model.UpsertTemplateRequest true "Template fields"
// @Success 200 {object} model.BriefingTemplate
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /briefing-template [put]
func (h *TemplateHandler) upsert(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req model.UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tmpl, err := h.svc.Upsert(c.Request.Context(), user.UUID, req)
	if err != nil {
		writeTemplateError(c, err)
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func writeTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("briefing-template: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
