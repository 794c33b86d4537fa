// Package handler exposes the minutes submission endpoint.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crmdash_backend/internal/scoring/service"
	"crmdash_backend/internal/scoring/transport"
	"crmdash_backend/platform/httpkit"
	"crmdash_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func NewHandler(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/meetings/mom", h.SubmitMinutes)
}

// SubmitMinutes stores and scores meeting minutes, then updates the linked
// contact's outcome.
func (h *Handler) SubmitMinutes(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "user_id must be a valid UUID")
		return
	}

	var req transport.SubmitMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SubmitMinutes(c.Request.Context(), userID, req.MeetingID, req.MoMText)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}
