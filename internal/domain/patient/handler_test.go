package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campuscare/campuscare/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(NewService(newMockRepo())), echo.New()
}

func authedContext(e *echo.Echo, method, target string, body string, userID string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreateOwnProfile(t *testing.T) {
	h, e := newTestHandler()
	c, rec := authedContext(e, http.MethodPost, "/", `{"first_name":"Ana","last_name":"Gomez","age":21}`, uuid.NewString())
	if err := h.CreateOwnProfile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateOwnProfile_Duplicate(t *testing.T) {
	h, e := newTestHandler()
	uid := uuid.NewString()
	c, _ := authedContext(e, http.MethodPost, "/", `{"first_name":"Ana","last_name":"Gomez","age":21}`, uid)
	if err := h.CreateOwnProfile(c); err != nil {
		t.Fatalf("first create: %v", err)
	}
	c, _ = authedContext(e, http.MethodPost, "/", `{"first_name":"Ana","last_name":"Gomez","age":21}`, uid)
	err := h.CreateOwnProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("expected 409 HTTPError, got %v", err)
	}
}

func TestHandler_GetOwnProfile_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c, _ := authedContext(e, http.MethodGet, "/", "", uuid.NewString())
	err := h.GetOwnProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}

func TestHandler_GetPatient_ByPatientNumber(t *testing.T) {
	h, e := newTestHandler()
	p, _ := h.svc.CreateWalkIn(context.Background(), CreateInput{FirstName: "Ben", LastName: "Okafor", Age: 34})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.PatientID)
	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ListPatients(t *testing.T) {
	h, e := newTestHandler()
	h.svc.CreateWalkIn(context.Background(), CreateInput{FirstName: "Ben", LastName: "Okafor", Age: 34})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := h.ListPatients(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
