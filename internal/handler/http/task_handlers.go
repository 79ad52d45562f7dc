package httpx

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"nezabudu/internal/usecase"
)

type inlineSubTaskRequest struct {
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

func (h *Handler) createTask(c echo.Context) error {
	onBehalfOf, err := optionalUserIDQuery(c)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	var req struct {
		Title                 string                 `json:"title"`
		Description           *string                `json:"description"`
		DueAt                 *time.Time             `json:"due_at"`
		Status                string                 `json:"status"`
		RepeatIntervalMinutes *int                   `json:"repeat_interval_minutes"`
		TagIDs                []int64                `json:"tag_ids"`
		Subtasks              []inlineSubTaskRequest `json:"subtasks"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	inline := make([]usecase.InlineSubTask, len(req.Subtasks))
	for i, st := range req.Subtasks {
		inline[i] = usecase.InlineSubTask{Title: st.Title, IsDone: st.IsDone}
	}
	view, err := h.tasks.Create(actorFrom(c), onBehalfOf, usecase.TaskCreateInput{
		Title:                 req.Title,
		Description:           req.Description,
		DueAt:                 req.DueAt,
		Status:                req.Status,
		RepeatIntervalMinutes: req.RepeatIntervalMinutes,
		TagIDs:                req.TagIDs,
		Subtasks:              inline,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) listTasks(c echo.Context) error {
	onBehalfOf, err := optionalUserIDQuery(c)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	dueFrom, err := timeQuery(c, "due_from")
	if err != nil {
		return badRequest(c, "invalid due_from")
	}
	dueTo, err := timeQuery(c, "due_to")
	if err != nil {
		return badRequest(c, "invalid due_to")
	}
	views, err := h.tasks.List(actorFrom(c), onBehalfOf, usecase.TaskListInput{
		Search:  c.QueryParam("search"),
		Status:  c.QueryParam("status"),
		DueFrom: dueFrom,
		DueTo:   dueTo,
		Limit:   intQuery(c, "limit", 20),
		Offset:  intQuery(c, "offset", 0),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) getTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	view, err := h.tasks.Get(actorFrom(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) updateTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req struct {
		Title                 *string    `json:"title"`
		Description           *string    `json:"description"`
		DueAt                 *time.Time `json:"due_at"`
		Status                *string    `json:"status"`
		RepeatIntervalMinutes *int       `json:"repeat_interval_minutes"`
		TagIDs                []int64    `json:"tag_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	view, err := h.tasks.Update(actorFrom(c), id, usecase.TaskUpdateInput{
		Title:                 req.Title,
		Description:           req.Description,
		DueAt:                 req.DueAt,
		Status:                req.Status,
		RepeatIntervalMinutes: req.RepeatIntervalMinutes,
		TagIDs:                req.TagIDs,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) deleteTask(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.tasks.Delete(actorFrom(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted"})
}

func (h *Handler) generateNext(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	view, err := h.tasks.GenerateNext(actorFrom(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) calendar(c echo.Context) error {
	onBehalfOf, err := optionalUserIDQuery(c)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	from, err := timeQuery(c, "date_from")
	if err != nil || from == nil {
		return badRequest(c, "invalid date_from")
	}
	to, err := timeQuery(c, "date_to")
	if err != nil || to == nil {
		return badRequest(c, "invalid date_to")
	}
	items, err := h.tasks.Calendar(actorFrom(c), onBehalfOf, *from, *to)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// nluStub is a passthrough: the client maps the text to a task create on its
// side until real extraction exists.
func (h *Handler) nluStub(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	if len(req.Text) < 1 || len(req.Text) > 500 {
		return badRequest(c, "text must be 1..500 characters")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"intent": "create_task_stub",
		"extracted": echo.Map{
			"raw_text": req.Text,
			"hint":     "NLU not implemented yet. Map this text to a task create on the client side.",
		},
	})
}
