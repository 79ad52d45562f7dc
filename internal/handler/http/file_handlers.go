package httpx

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"nezabudu/internal/domain"
)

func (h *Handler) uploadFile(c echo.Context) error {
	taskID, err := strconv.ParseInt(c.QueryParam("task_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid task_id")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file form field is required")
	}
	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "could not read file")
	}
	defer src.Close()

	// Read one byte past the cap so oversized uploads are rejected without
	// trusting the client-declared size.
	data, err := io.ReadAll(io.LimitReader(src, domain.MaxAttachmentBytes+1))
	if err != nil {
		return badRequest(c, "could not read file")
	}

	var contentType *string
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		contentType = &ct
	}
	a, err := h.attachments.Upload(actorFrom(c), taskID, fh.Filename, contentType, data)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) listFiles(c echo.Context) error {
	taskID, err := strconv.ParseInt(c.QueryParam("task_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid task_id")
	}
	items, err := h.attachments.List(actorFrom(c), taskID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) downloadFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	a, rc, err := h.attachments.Download(actorFrom(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	defer rc.Close()

	ct := "application/octet-stream"
	if a.ContentType != nil && *a.ContentType != "" {
		ct = *a.ContentType
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", a.Filename))
	return c.Stream(http.StatusOK, ct, rc)
}

func (h *Handler) deleteFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.attachments.Delete(actorFrom(c), id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "File deleted"})
}
