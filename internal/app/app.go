// Package app assembles the store, byte storage, services and HTTP router
// from a loaded config.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"nezabudu/internal/auth"
	"nezabudu/internal/blob"
	"nezabudu/internal/config"
	httpx "nezabudu/internal/handler/http"
	"nezabudu/internal/storage/sqlite"
	"nezabudu/internal/usecase"
)

type App struct {
	Config config.Config
	Router http.Handler
	Users  *usecase.UserService

	store *sqlite.Store
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	store, err := sqlite.New(log, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	blobs, err := blob.NewFS(cfg.UploadDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open upload dir: %w", err)
	}

	users := usecase.NewUserService(store, blobs, log)
	tags := usecase.NewTagService(store, store)
	tasks := usecase.NewTaskService(store, store, store, blobs, log)
	subtasks := usecase.NewSubTaskService(store, store)
	attachments := usecase.NewAttachmentService(store, store, blobs, log)
	reminders := usecase.NewReminderService(store, store)
	tokens := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)

	router := httpx.New(users, tags, tasks, subtasks, attachments, reminders, tokens, log)

	return &App{
		Config: cfg,
		Router: router,
		Users:  users,
		store:  store,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}
