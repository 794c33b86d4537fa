package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crmdash_backend/internal/analytics/repository"
	"crmdash_backend/internal/analytics/service"
	"crmdash_backend/internal/analytics/transport"
	"crmdash_backend/platform/logger"
	"crmdash_backend/platform/validator"
)

// stubStore satisfies the repository interface with empty results so handler
// tests exercise binding and validation only.
type stubStore struct{}

func (stubStore) CountContacts(context.Context, uuid.UUID) (int, error) { return 1, nil }
func (stubStore) ListContactOutcomes(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.ContactOutcome, error) {
	return nil, nil
}
func (stubStore) ListMeetingStatuses(context.Context, uuid.UUID, time.Time, time.Time) ([]repository.MeetingStatus, error) {
	return nil, nil
}
func (stubStore) ListEmailStatuses(context.Context, uuid.UUID, time.Time, time.Time) ([]string, error) {
	return nil, nil
}
func (stubStore) CountOverdueFollowups(context.Context, uuid.UUID, time.Time) (int, error) {
	return 0, nil
}
func (stubStore) ListUpcomingMeetings(context.Context, uuid.UUID, time.Time, int) ([]repository.UpcomingMeeting, error) {
	return nil, nil
}
func (stubStore) ListCompletedMeetings(context.Context, uuid.UUID, int) ([]repository.CompletedMeeting, error) {
	return nil, nil
}
func (stubStore) ListDraftedEmails(context.Context, uuid.UUID, int) ([]repository.Email, error) {
	return nil, nil
}
func (stubStore) ListContacts(context.Context, uuid.UUID) ([]repository.Contact, error) {
	return nil, nil
}
func (stubStore) ListContactChannels(context.Context, []uuid.UUID) ([]repository.ContactChannel, error) {
	return nil, nil
}
func (stubStore) SearchContacts(context.Context, uuid.UUID, string) ([]repository.Contact, error) {
	return nil, nil
}
func (stubStore) SearchMeetings(context.Context, uuid.UUID, string) ([]repository.Meeting, error) {
	return nil, nil
}
func (stubStore) SearchEmails(context.Context, uuid.UUID, string) ([]repository.Email, error) {
	return nil, nil
}
func (stubStore) IndustryCounts(context.Context, time.Time, time.Time) ([]repository.IndustryCount, error) {
	return nil, nil
}
func (stubStore) DailyScanCounts(context.Context) ([]repository.DailyScanCount, error) {
	return nil, nil
}

var _ repository.Store = stubStore{}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.New(stubStore{}, logger.New("development"))
	h := New(svc, validator.New())

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func get(t *testing.T, router *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserScopedEndpointsAcceptValidUserID(t *testing.T) {
	router := newTestRouter()
	userID := uuid.New().String()

	paths := []string{
		"/api/v1/contacts?user_id=" + userID,
		"/api/v1/search?user_id=" + userID + "&query=ada",
		"/api/v1/analytics/funnel?user_id=" + userID,
		"/api/v1/analytics/conversion-rates?user_id=" + userID,
		"/api/v1/dashboard/summary?user_id=" + userID,
		"/api/v1/meetings/upcoming?user_id=" + userID,
		"/api/v1/meetings/completed?user_id=" + userID,
		"/api/v1/emails/drafted?user_id=" + userID,
	}

	for _, path := range paths {
		if w := get(t, router, path); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200 (body: %s)", path, w.Code, w.Body.String())
		}
	}
}

func TestUserScopedEndpointsRejectBadUserID(t *testing.T) {
	router := newTestRouter()

	if w := get(t, router, "/api/v1/contacts?user_id=not-a-uuid"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed user_id: status = %d, want 400", w.Code)
	}
	if w := get(t, router, "/api/v1/contacts"); w.Code != http.StatusBadRequest {
		t.Errorf("missing user_id: status = %d, want 400", w.Code)
	}
}

func TestDateRangeEchoesEffectivePreset(t *testing.T) {
	router := newTestRouter()

	w := get(t, router, "/api/v1/analytics/date-range?preset=CUSTOM")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var resp transport.DateRangeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// Missing custom bounds resolve as month-to-date, and the response must
	// report the window that was actually applied.
	if resp.Preset != transport.PresetThisMonth {
		t.Errorf("preset = %q, want %q", resp.Preset, transport.PresetThisMonth)
	}
}

func TestDateRangeCustomBounds(t *testing.T) {
	router := newTestRouter()

	w := get(t, router, "/api/v1/analytics/date-range?preset=CUSTOM&custom_start=2026-08-01&custom_end=2026-08-15")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}

	var resp transport.DateRangeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Preset != transport.PresetCustom {
		t.Errorf("preset = %q, want %q", resp.Preset, transport.PresetCustom)
	}
	if resp.StartDate != "2026-08-01" || resp.EndDate != "2026-08-15" {
		t.Errorf("bounds = %s..%s, want 2026-08-01..2026-08-15", resp.StartDate, resp.EndDate)
	}
}
