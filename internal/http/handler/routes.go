package handler

import (
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/service"
	"contentapi/internal/storage"
)

// Dependencies collects what the routes need.
type Dependencies struct {
	DB          *sql.DB
	Store       storage.Storage
	Contents    service.ContentService
	Binder      *service.Binder
	Stager      *storage.Stager
	MediaPrefix string
	PresignTTL  time.Duration
	Log         *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB, d.Store))
	app.Get("/healthz", LivenessProbe())

	content := app.Group("/content")
	// /content/empty must be registered before /content/:id.
	content.Get("/empty", GetEmptyContent(d.Contents, d.Log))
	content.Get("/:id", GetContent(d.Contents, d.Log))
	content.Post("/save", SaveContent(d.Contents, d.Binder, d.Stager, d.Log))

	if d.Store != nil {
		prefix := strings.Trim(d.MediaPrefix, "/")
		if prefix == "" {
			prefix = "media"
		}
		app.Get("/"+prefix+"/*", MediaRedirect(d.Store, prefix, d.PresignTTL, d.Log))
	}
}
