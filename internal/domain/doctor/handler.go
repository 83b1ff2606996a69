package doctor

import (
	"errors"
	"net/http"
	"time"

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
	// Listing doctors and checking availability is open to any
	// authenticated user so patients can pick a doctor when booking.
	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.GET("/doctors/:id/schedule", h.GetSchedule)
	api.GET("/doctors/:id/availability", h.CheckAvailability)

	staff := api.Group("", auth.RequireRole("admin", "doctor"))
	staff.PUT("/doctors/:id/schedule", h.SetSchedule)
	staff.GET("/doctors/:id/exceptions", h.ListExceptions)
	staff.POST("/doctors/:id/exceptions", h.AddException)
	staff.DELETE("/doctors/:id/exceptions/:exceptionId", h.RemoveException)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/doctors", h.CreateDoctor)
	admin.PUT("/doctors/:id", h.UpdateDoctor)
	admin.DELETE("/doctors/:id", h.DeleteDoctor)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("specialty"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sched, err := h.svc.GetSchedule(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNoSchedule) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor has no schedule")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sched)
}

func (h *Handler) SetSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in ScheduleInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sched, err := h.svc.SetSchedule(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sched)
}

// CheckAvailability answers ?date=2026-09-07&hour=10 with a bookable
// verdict for the doctor.
func (h *Handler) CheckAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var hour int
	if err := echo.QueryParamsBinder(c).Int("hour", &hour).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hour must be an integer")
	}
	ok, err := h.svc.IsBookable(c.Request().Context(), id, date, hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"doctor_id": id, "date": c.QueryParam("date"), "hour": hour, "bookable": ok})
}

func (h *Handler) ListExceptions(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListExceptions(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	now := time.Now()
	type exceptionView struct {
		*AvailabilityException
		Status ExceptionStatus `json:"status"`
	}
	views := make([]exceptionView, 0, len(items))
	for _, e := range items {
		views = append(views, exceptionView{e, e.Status(now)})
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) AddException(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in ExceptionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	e, err := h.svc.AddException(c.Request().Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) RemoveException(c echo.Context) error {
	id, err := uuid.Parse(c.Param("exceptionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exception id")
	}
	if err := h.svc.RemoveException(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
