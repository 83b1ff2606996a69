package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campuscare/campuscare/internal/domain/doctor"
	"github.com/campuscare/campuscare/internal/domain/patient"
	"github.com/campuscare/campuscare/internal/platform/auth"
)

// DoctorResolver maps a login account to its doctor row.
type DoctorResolver interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error)
}

// PatientResolver maps a login account to its patient profile.
type PatientResolver interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*patient.Patient, error)
}

type Handler struct {
	svc      *Service
	doctors  DoctorResolver
	patients PatientResolver
}

func NewHandler(svc *Service, doctors DoctorResolver, patients PatientResolver) *Handler {
	return &Handler{svc: svc, doctors: doctors, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/admin", h.AdminDashboard, auth.RequireRole("admin"))
	api.GET("/dashboard/doctor", h.DoctorDashboard, auth.RequireRole("doctor"))
	api.GET("/dashboard/me", h.PatientDashboard)
}

func (h *Handler) AdminDashboard(c echo.Context) error {
	stats, err := h.svc.AdminStats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) DoctorDashboard(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	d, err := h.doctors.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, doctor.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no doctor row for this account")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	stats, err := h.svc.DoctorStats(c.Request().Context(), d.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) PatientDashboard(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	p, err := h.patients.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no patient profile for this account")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	stats, err := h.svc.PatientStats(c.Request().Context(), p.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
