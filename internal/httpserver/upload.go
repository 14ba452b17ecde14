package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/storage"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type UploadHTTP struct {
	Store storage.Storage
}

// Upload stores the multipart "file" field and returns its public URL.
func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.upload")

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "reason", "file is required", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		l.Error("upload_error", "status", 500, "reason", "cannot open file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	defer src.Close()

	url, err := h.Store.Save(ctx, fh.Filename, src)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		l.Warn("upload_error", "status", 400, "reason", "unsupported type", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "only jpg, jpeg, png, gif and webp images are allowed")
	case errors.Is(err, storage.ErrTooLarge):
		l.Warn("upload_error", "status", 413, "reason", "too large", "size", fh.Size)
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file is too large")
	case err != nil:
		l.Error("upload_error", "status", 500, "reason", "cannot save file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("upload_success", "url", url)
	return c.JSON(http.StatusCreated, transport.UploadResponse{URL: url})
}
