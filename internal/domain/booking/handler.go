package booking

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campuscare/campuscare/internal/domain/identity"
	"github.com/campuscare/campuscare/internal/domain/patient"
	"github.com/campuscare/campuscare/internal/platform/auth"
	"github.com/campuscare/campuscare/pkg/pagination"
)

// ProfileResolver maps a login account to its patient profile so
// non-staff callers can only act on their own appointments.
type ProfileResolver interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*patient.Patient, error)
}

type Handler struct {
	svc      *Service
	profiles ProfileResolver
}

func NewHandler(svc *Service, profiles ProfileResolver) *Handler {
	return &Handler{svc: svc, profiles: profiles}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Submit)
	api.GET("/appointments/mine", h.ListMine)
	api.GET("/appointments/:id", h.GetAppointment)
	api.POST("/appointments/:id/cancel", h.Cancel)

	staff := api.Group("", auth.RequireRole("admin", "doctor"))
	staff.GET("/queue", h.ListQueue)
	staff.POST("/queue/:queueId/triage", h.Triage)
	staff.GET("/appointments", h.ListAppointments)
	staff.POST("/appointments/:id/start", h.Start)
	staff.POST("/appointments/:id/complete", h.Complete)
}

// Submit books an appointment. Staff may book on behalf of any patient;
// everyone else books for their own profile regardless of the patient_id
// in the body.
func (h *Handler) Submit(c echo.Context) error {
	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	role := auth.RoleFromContext(c.Request().Context())
	if role != identity.RoleAdmin && role != identity.RoleDoctor {
		p, err := h.ownProfile(c)
		if err != nil {
			return err
		}
		in.PatientID = p.ID
	}
	entry, appt, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDoctorUnavailable) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"queue_entry": entry, "appointment": appt})
}

func (h *Handler) ListQueue(c echo.Context) error {
	items, err := h.svc.ListQueue(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*QueueItem{}
	}
	return c.JSON(http.StatusOK, items)
}

type triageRequest struct {
	AppointmentID uuid.UUID      `json:"appointment_id"`
	Decision      TriageDecision `json:"decision"`
}

func (h *Handler) Triage(c echo.Context) error {
	queueID, err := uuid.Parse(c.Param("queueId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid queue id")
	}
	var req triageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	err = h.svc.Triage(c.Request().Context(), queueID, req.AppointmentID, req.Decision)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"queue_id": queueID, "decision": req.Decision})
	case errors.Is(err, ErrAlreadyTriaged):
		return echo.NewHTTPError(http.StatusNotFound, "queue entry not found or already triaged")
	case errors.Is(err, ErrQueueMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	role := auth.RoleFromContext(c.Request().Context())
	if role != identity.RoleAdmin && role != identity.RoleDoctor {
		p, perr := h.ownProfile(c)
		if perr != nil {
			return perr
		}
		if a.PatientID != p.ID {
			return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
		}
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.ownProfile(c)
	if err != nil {
		return err
	}
	a, err := h.svc.CancelOwn(c.Request().Context(), p.ID, id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, a)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ListMine(c echo.Context) error {
	p, err := h.ownProfile(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), p.ID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// ListAppointments filters by doctor_id, patient_id or status.
func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	if raw := c.QueryParam("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		items, total, err := h.svc.ListByDoctor(ctx, id, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(ctx, id, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	status := c.QueryParam("status")
	if status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "one of doctor_id, patient_id or status is required")
	}
	items, total, err := h.svc.ListByStatus(ctx, status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Start(c echo.Context) error {
	return h.applyTransition(c, h.svc.Start)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.applyTransition(c, h.svc.Complete)
}

func (h *Handler) applyTransition(c echo.Context, fn func(context.Context, uuid.UUID) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := fn(c.Request().Context(), id)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, a)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) ownProfile(c echo.Context) (*patient.Patient, error) {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	p, err := h.profiles.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusForbidden, "complete your patient profile first")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return p, nil
}
