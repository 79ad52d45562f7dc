package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"nezabudu/internal/domain"
)

// fail maps the domain error taxonomy onto status codes. Anything outside
// the taxonomy is a store failure: logged with context, reported opaquely.
func (h *Handler) fail(c echo.Context, err error) error {
	var ve *domain.ValidationError
	var ute *domain.UnknownTagIDsError
	switch {
	case errors.As(err, &ve),
		errors.As(err, &ute),
		errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrNotRepeating),
		errors.Is(err, domain.ErrTaskNoDueDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrBadCredential):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrAdminRequired):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMediaMissing):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		h.log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// optionalUserIDQuery reads the admin on-behalf-of query parameter.
func optionalUserIDQuery(c echo.Context) (*int64, error) {
	raw := c.QueryParam("user_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func intQuery(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func timeQuery(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
