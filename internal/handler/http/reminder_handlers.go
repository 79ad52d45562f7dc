package httpx

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"nezabudu/internal/usecase"
)

func (h *Handler) createReminder(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	var req struct {
		EveryMinutes int        `json:"every_minutes"`
		StartAt      *time.Time `json:"start_at"`
		EndAt        *time.Time `json:"end_at"`
		IsEnabled    *bool      `json:"is_enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	r, err := h.reminders.Create(actorFrom(c), taskID, req.EveryMinutes, req.StartAt, req.EndAt, enabled)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) listReminders(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	items, err := h.reminders.List(actorFrom(c), taskID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) updateReminder(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	id, err := pathID(c, "reminderID")
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}
	var req struct {
		EveryMinutes *int       `json:"every_minutes"`
		StartAt      *time.Time `json:"start_at"`
		EndAt        *time.Time `json:"end_at"`
		IsEnabled    *bool      `json:"is_enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid json")
	}
	r, err := h.reminders.Update(actorFrom(c), taskID, id, usecase.ReminderUpdateInput{
		EveryMinutes: req.EveryMinutes,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		IsEnabled:    req.IsEnabled,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) deleteReminder(c echo.Context) error {
	taskID, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid task id")
	}
	id, err := pathID(c, "reminderID")
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}
	if err := h.reminders.Delete(actorFrom(c), taskID, id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reminder deleted"})
}
