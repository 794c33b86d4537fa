package handler

import (
	"net/http"

	"crmdash_backend/internal/analytics/service"
	"crmdash_backend/internal/analytics/transport"
	"crmdash_backend/platform/httpkit"
	"crmdash_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for analytics views.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new analytics handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the analytics routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/analytics/funnel", h.Funnel)
	rg.GET("/analytics/conversion-rates", h.ConversionRates)
	rg.GET("/analytics/industry-distribution", h.IndustryDistribution)
	rg.GET("/analytics/daily-scans", h.DailyScans)
	rg.GET("/analytics/date-range", h.DateRange)
	rg.GET("/dashboard/summary", h.DashboardSummary)
	rg.GET("/meetings/upcoming", h.UpcomingMeetings)
	rg.GET("/meetings/completed", h.CompletedMeetings)
	rg.GET("/emails/drafted", h.DraftedEmails)
	rg.GET("/contacts", h.Contacts)
}

// parseUserID converts the validated user_id string to a UUID. The validator
// has already checked the format, so a failure here still answers 400.
func parseUserID(c *gin.Context, raw string) (uuid.UUID, bool) {
	userID, err := uuid.Parse(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "user_id must be a valid UUID")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.GlobalSearch(c.Request.Context(), userID, req.Query))
}

func (h *Handler) Funnel(c *gin.Context) {
	var req transport.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	start, end := h.svc.Resolve(req.Preset, req.StartDate, req.EndDate)
	result, err := h.svc.FunnelBreakdown(c.Request.Context(), userID, start, end)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ConversionRates(c *gin.Context) {
	var req transport.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	start, end := h.svc.Resolve(req.Preset, req.StartDate, req.EndDate)
	result, err := h.svc.ConversionRates(c.Request.Context(), userID, start, end)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) IndustryDistribution(c *gin.Context) {
	var req transport.GlobalRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	start, end := h.svc.Resolve(req.Preset, req.StartDate, req.EndDate)
	result, err := h.svc.IndustryDistribution(c.Request.Context(), start, end)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) DailyScans(c *gin.Context) {
	result, err := h.svc.DailyScans(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) DateRange(c *gin.Context) {
	var req transport.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	preset := req.Preset
	if preset == "" {
		preset = transport.PresetThisMonth
	}
	// CUSTOM with a missing bound resolves as month-to-date; echo the preset
	// that was actually applied.
	if preset == transport.PresetCustom && (req.CustomStart == "" || req.CustomEnd == "") {
		preset = transport.PresetThisMonth
	}

	start, end := h.svc.Resolve(preset, req.CustomStart, req.CustomEnd)
	httpkit.OK(c, transport.DateRangeResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Preset:    preset,
	})
}

func (h *Handler) DashboardSummary(c *gin.Context) {
	var req transport.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	start, end := h.svc.Resolve(req.Preset, req.StartDate, req.EndDate)
	result, err := h.svc.DashboardSummary(c.Request.Context(), userID, start, end)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) UpcomingMeetings(c *gin.Context) {
	var req transport.UpcomingMeetingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.UpcomingMeetings(c.Request.Context(), userID, req.Limit))
}

func (h *Handler) CompletedMeetings(c *gin.Context) {
	var req transport.CompletedMeetingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.CompletedMeetings(c.Request.Context(), userID, req.Limit))
}

func (h *Handler) DraftedEmails(c *gin.Context) {
	var req transport.DraftedEmailsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.DraftedEmails(c.Request.Context(), userID, req.Limit))
}

func (h *Handler) Contacts(c *gin.Context) {
	var req transport.ContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	userID, ok := parseUserID(c, req.UserID)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.AllContacts(c.Request.Context(), userID))
}
