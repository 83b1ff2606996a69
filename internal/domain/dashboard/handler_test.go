package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campuscare/campuscare/internal/domain/doctor"
	"github.com/campuscare/campuscare/internal/domain/patient"
	"github.com/campuscare/campuscare/internal/platform/auth"
)

type mockDoctorResolver struct{ d *doctor.Doctor }

func (m *mockDoctorResolver) GetByUserID(_ context.Context, _ uuid.UUID) (*doctor.Doctor, error) {
	if m.d == nil {
		return nil, doctor.ErrNotFound
	}
	return m.d, nil
}

type mockPatientResolver struct{ p *patient.Patient }

func (m *mockPatientResolver) GetByUserID(_ context.Context, _ uuid.UUID) (*patient.Patient, error) {
	if m.p == nil {
		return nil, patient.ErrNotFound
	}
	return m.p, nil
}

func authedContext(e *echo.Echo, rec *httptest.ResponseRecorder, userID string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
	return e.NewContext(req, rec)
}

func TestHandler_AdminDashboard(t *testing.T) {
	repo := &mockRepo{patients: 12, doctors: 2, byStatus: map[string]int{"pending": 4}, queueDepth: 4}
	h := NewHandler(NewService(repo), &mockDoctorResolver{}, &mockPatientResolver{})
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := h.AdminDashboard(authedContext(e, rec, uuid.NewString())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"total_patients":12`) {
		t.Errorf("expected patient count in body, got %s", rec.Body.String())
	}
}

func TestHandler_DoctorDashboard(t *testing.T) {
	repo := &mockRepo{todayConfirmed: 3, doctorPending: 1, distinctSeen: 9}
	resolver := &mockDoctorResolver{d: &doctor.Doctor{ID: uuid.New(), Name: "Dr. Rivera"}}
	h := NewHandler(NewService(repo), resolver, &mockPatientResolver{})
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := h.DoctorDashboard(authedContext(e, rec, uuid.NewString())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"patients_seen":9`) {
		t.Errorf("expected patients seen in body, got %s", rec.Body.String())
	}
}

func TestHandler_DoctorDashboard_NoDoctorRow(t *testing.T) {
	h := NewHandler(NewService(&mockRepo{}), &mockDoctorResolver{}, &mockPatientResolver{})
	e := echo.New()
	rec := httptest.NewRecorder()
	err := h.DoctorDashboard(authedContext(e, rec, uuid.NewString()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}

func TestHandler_PatientDashboard_NoProfile(t *testing.T) {
	h := NewHandler(NewService(&mockRepo{}), &mockDoctorResolver{}, &mockPatientResolver{})
	e := echo.New()
	rec := httptest.NewRecorder()
	err := h.PatientDashboard(authedContext(e, rec, uuid.NewString()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 HTTPError, got %v", err)
	}
}
