package handler

import (
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/storage"
)

// MediaRedirect redirects to a presigned download URL for a media object saved by the upload editor.
//
// @Summary Download media
// @Tags media
// @Param key path string true "Object key below the media prefix"
// @Success 302
// @Failure 400 {object} errorPayload
// @Router /media/{key} [get]
func MediaRedirect(store storage.Storage, prefix string, ttl time.Duration, log *slog.Logger) fiber.Handler {
	log = handlerLogger(log)
	prefix = strings.Trim(prefix, "/")
	return func(c *fiber.Ctx) error {
		rel := strings.TrimPrefix(path.Clean("/"+c.Params("*")), "/")
		if rel == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_KEY", "invalid media key")
		}
		url, err := store.PresignGet(c.UserContext(), path.Join(prefix, rel), ttl)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
