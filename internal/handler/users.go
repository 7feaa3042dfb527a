package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

// UserHandler serves user accounts and credential checks.
type UserHandler struct {
	Store *store.Store
}

func NewUserHandler(s *store.Store) *UserHandler { return &UserHandler{Store: s} }

type verifyReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Create handles POST /v1/users. Role defaults to "user".
func (h *UserHandler) Create(c echo.Context) error {
	var req model.NewUser
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	switch req.Role {
	case model.RoleUser, model.RoleProvider:
	case "":
		req.Role = model.RoleUser
	default:
		return badRequest(c, "role must be user or provider")
	}

	u, err := h.Store.CreateUser(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}
	return c.JSON(http.StatusCreated, u)
}

// List handles GET /v1/users. With ?email= it returns the first user
// registered with that address.
func (h *UserHandler) List(c echo.Context) error {
	if email := c.QueryParam("email"); email != "" {
		u, ok := h.Store.GetUserByEmail(email)
		if !ok {
			return notFound(c, "user")
		}
		return c.JSON(http.StatusOK, u)
	}
	return c.JSON(http.StatusOK, h.Store.ListUsers())
}

func (h *UserHandler) Get(c echo.Context) error {
	u, ok := h.Store.GetUserByID(c.Param("id"))
	if !ok {
		return notFound(c, "user")
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PATCH /v1/users/:id.
func (h *UserHandler) Update(c echo.Context) error {
	var p model.UserPatch
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	u, ok := h.Store.UpdateUser(c.Param("id"), p)
	if !ok {
		return notFound(c, "user")
	}
	return c.JSON(http.StatusOK, u)
}

// Verify handles POST /v1/auth/verify. It checks a credential pair and
// returns the user; no session or token is issued.
func (h *UserHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, ok := h.Store.VerifyUserPassword(strings.TrimSpace(req.Email), req.Password)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return c.JSON(http.StatusOK, u)
}
