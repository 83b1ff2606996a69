package identity

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

// RegisterPublicRoutes mounts the routes that do not require a token:
// signup, login and the legacy user endpoint kept for older clients.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.GET("/api/users", h.LookupUser)
	e.POST("/api/users", h.CreateUserLegacy)
	e.POST("/api/v1/auth/register", h.Register)
	e.POST("/api/v1/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id", h.GetUser)
}

// -- legacy /api/users --
//
// The response envelope here predates the v1 API: successes wrap the
// record under "user", failures return {"message": ...}.

func (h *Handler) LookupUser(c echo.Context) error {
	var (
		u   *User
		err error
	)
	switch {
	case c.QueryParam("id") != "":
		id, perr := uuid.Parse(c.QueryParam("id"))
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
		}
		u, err = h.svc.GetByID(c.Request().Context(), id)
	case c.QueryParam("username") != "":
		u, err = h.svc.GetByUsername(c.Request().Context(), c.QueryParam("username"))
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "id or username query parameter is required"})
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

func (h *Handler) CreateUserLegacy(c echo.Context) error {
	var in CreateUserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	u, err := h.svc.CreateUser(c.Request().Context(), in)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": u})
}

// -- v1 auth --

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.Username
	}
	result, err := h.svc.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) Logout(c echo.Context) error {
	if claims, ok := c.Get("claims").(*auth.Claims); ok {
		h.svc.Logout(claims)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	u, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, u)
}

// -- admin --

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateUser(c echo.Context) error {
	var in CreateUserInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.CreateUser(c.Request().Context(), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, u)
}
