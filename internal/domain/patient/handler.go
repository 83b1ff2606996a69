package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/campuscare/campuscare/internal/platform/auth"
	"github.com/campuscare/campuscare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Any authenticated account can complete its own profile.
	api.POST("/patients/me", h.CreateOwnProfile)
	api.GET("/patients/me", h.GetOwnProfile)

	staff := api.Group("", auth.RequireRole("admin", "doctor"))
	staff.GET("/patients", h.ListPatients)
	staff.GET("/patients/:id", h.GetPatient)
	staff.PUT("/patients/:id", h.UpdatePatient)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/patients", h.CreateWalkIn)
	admin.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) CreateOwnProfile(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.CreateForUser(c.Request().Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrProfileExists) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetOwnProfile(c echo.Context) error {
	userID, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	p, err := h.svc.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no patient profile for this account")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateWalkIn(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.CreateWalkIn(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, err := h.svc.Update(c.Request().Context(), p.ID, in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	p, err := h.resolve(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("name"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// resolve accepts either the row UUID or the human-readable patient
// number (P…) as the :id path segment.
func (h *Handler) resolve(c echo.Context) (*Patient, error) {
	raw := c.Param("id")
	var (
		p   *Patient
		err error
	)
	if id, parseErr := uuid.Parse(raw); parseErr == nil {
		p, err = h.svc.GetByID(c.Request().Context(), id)
	} else {
		p, err = h.svc.GetByPatientID(c.Request().Context(), raw)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return p, nil
}
