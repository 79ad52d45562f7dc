package httpx

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) createTag(c echo.Context) error {
	onBehalfOf, err := optionalUserIDQuery(c)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	t, err := h.tags.Create(actorFrom(c), onBehalfOf, req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) listTags(c echo.Context) error {
	onBehalfOf, err := optionalUserIDQuery(c)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	tags, err := h.tags.List(actorFrom(c), onBehalfOf)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *Handler) updateTag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req struct {
		Name *string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	t, err := h.tags.Update(actorFrom(c), id, req.Name)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) deleteTag(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.tags.Delete(actorFrom(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Tag deleted"})
}
