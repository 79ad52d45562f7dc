package httpx

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *Handler) createSubTask(c echo.Context) error {
	var req struct {
		TaskID int64  `json:"task_id"`
		Title  string `json:"title"`
		IsDone bool   `json:"is_done"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	st, err := h.subtasks.Create(actorFrom(c), req.TaskID, req.Title, req.IsDone)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) listSubTasks(c echo.Context) error {
	taskID, err := strconv.ParseInt(c.QueryParam("task_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid task_id")
	}
	items, err := h.subtasks.List(actorFrom(c), taskID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) updateSubTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req struct {
		Title  *string `json:"title"`
		IsDone *bool   `json:"is_done"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	st, err := h.subtasks.Update(actorFrom(c), id, req.Title, req.IsDone)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) deleteSubTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.subtasks.Delete(actorFrom(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Subtask deleted"})
}
