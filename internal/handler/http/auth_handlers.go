package httpx

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"nezabudu/internal/domain"
)

type authResponse struct {
	Token    string      `json:"token"`
	UserData domain.User `json:"user_data"`
}

func (h *Handler) register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	u, err := h.users.Register(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		return h.fail(c, err)
	}
	token, err := h.tokens.Issue(u.Email, u.ID, u.Role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, UserData: u})
}

func (h *Handler) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	u, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	token, err := h.tokens.Issue(u.Email, u.ID, u.Role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, UserData: u})
}

func (h *Handler) profile(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}
