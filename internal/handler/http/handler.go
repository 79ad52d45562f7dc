// Package httpx is the HTTP boundary: routing, bearer auth, request
// decoding and the mapping from the domain error taxonomy to status codes.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nezabudu/internal/auth"
	"nezabudu/internal/usecase"
)

type Handler struct {
	users       *usecase.UserService
	tags        *usecase.TagService
	tasks       *usecase.TaskService
	subtasks    *usecase.SubTaskService
	attachments *usecase.AttachmentService
	reminders   *usecase.ReminderService
	tokens      *auth.TokenCodec
	log         *slog.Logger
}

func New(
	users *usecase.UserService,
	tags *usecase.TagService,
	tasks *usecase.TaskService,
	subtasks *usecase.SubTaskService,
	attachments *usecase.AttachmentService,
	reminders *usecase.ReminderService,
	tokens *auth.TokenCodec,
	log *slog.Logger,
) http.Handler {
	h := &Handler{
		users:       users,
		tags:        tags,
		tasks:       tasks,
		subtasks:    subtasks,
		attachments: attachments,
		reminders:   reminders,
		tokens:      tokens,
		log:         log,
	}
	return h.routes()
}

func (h *Handler) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(observeRequests)

	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/register", h.register)
	e.POST("/login", h.login)

	api := e.Group("", h.requireAuth)
	api.GET("/profile", h.profile)

	admin := api.Group("/users", h.requireAdmin)
	admin.GET("", h.listUsers)
	admin.GET("/:id", h.getUser)
	admin.PUT("/:id", h.updateUser)
	admin.DELETE("/:id", h.deleteUser)

	api.POST("/tags", h.createTag)
	api.GET("/tags", h.listTags)
	api.PUT("/tags/:id", h.updateTag)
	api.DELETE("/tags/:id", h.deleteTag)

	api.POST("/tasks", h.createTask)
	api.GET("/tasks", h.listTasks)
	api.POST("/tasks/nlu", h.nluStub)
	api.GET("/tasks/:id", h.getTask)
	api.PUT("/tasks/:id", h.updateTask)
	api.DELETE("/tasks/:id", h.deleteTask)
	api.POST("/tasks/:id/generate-next", h.generateNext)

	api.POST("/tasks/:id/reminders", h.createReminder)
	api.GET("/tasks/:id/reminders", h.listReminders)
	api.PUT("/tasks/:id/reminders/:reminderID", h.updateReminder)
	api.DELETE("/tasks/:id/reminders/:reminderID", h.deleteReminder)

	api.POST("/subtasks", h.createSubTask)
	api.GET("/subtasks", h.listSubTasks)
	api.PUT("/subtasks/:id", h.updateSubTask)
	api.DELETE("/subtasks/:id", h.deleteSubTask)

	api.GET("/calendar", h.calendar)

	api.POST("/files", h.uploadFile)
	api.GET("/files", h.listFiles)
	api.GET("/files/:id/download", h.downloadFile)
	api.DELETE("/files/:id", h.deleteFile)

	return e
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
