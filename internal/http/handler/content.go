package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/model"
	"contentapi/internal/service"
	"contentapi/internal/storage"
)

const (
	// contentItemField is the multipart field carrying the JSON save request.
	contentItemField = "contentItem"
	// filePrefix prefixes multipart file fields; the remainder is the property alias.
	filePrefix = "file_"
)

// GetContent godoc
// @Summary Get content by id
// @Tags content
// @Produce json
// @Param id path int true "Content id"
// @Success 200 {object} model.ContentItemDisplay
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /content/{id} [get]
func GetContent(svc service.ContentService, log *slog.Logger) fiber.Handler {
	log = handlerLogger(log)
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		d, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(d)
	}
}

// GetEmptyContent godoc
// @Summary Scaffold unsaved content of a content type
// @Tags content
// @Produce json
// @Param contentTypeAlias query string true "Content type alias"
// @Param parentId query int false "Parent id, -1 for the root"
// @Success 200 {object} model.ContentItemDisplay
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /content/empty [get]
func GetEmptyContent(svc service.ContentService, log *slog.Logger) fiber.Handler {
	log = handlerLogger(log)
	return func(c *fiber.Ctx) error {
		alias := strings.TrimSpace(c.Query("contentTypeAlias"))
		if alias == "" {
			return writeFieldError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "validation failed",
				map[string]string{"contentTypeAlias": "cannot be blank"})
		}
		parentID := model.RootID
		if raw := c.Query("parentId"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PARENT_ID", "invalid parent id format")
			}
			parentID = v
		}
		d, err := svc.GetEmpty(c.UserContext(), alias, parentID)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(d)
	}
}

// SaveContent godoc
// @Summary Save content
// @Description Accepts multipart/form-data with a JSON "contentItem" field and "file_<alias>" file fields,
// @Description or a plain JSON body without files. Content with id 0 is created.
// @Tags content
// @Accept mpfd,json
// @Produce json
// @Param contentItem formData string false "JSON encoded service.SaveRequest"
// @Success 200 {object} model.ContentItemDisplay
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /content/save [post]
func SaveContent(svc service.ContentService, binder *service.Binder, stager *storage.Stager, log *slog.Logger) fiber.Handler {
	log = handlerLogger(log)
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var (
			req    service.SaveRequest
			staged []model.UploadedFile
		)
		defer func() {
			if len(staged) > 0 {
				stager.Cleanup(context.WithoutCancel(ctx), staged)
			}
		}()

		if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			form, err := c.MultipartForm()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
			}
			raw := form.Value[contentItemField]
			if len(raw) == 0 {
				return writeError(c, fiber.StatusBadRequest, "CONTENT_ITEM_REQUIRED", "contentItem is required")
			}
			if err := json.Unmarshal([]byte(raw[0]), &req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_CONTENT_ITEM", "contentItem is not valid JSON")
			}

			fields := make([]string, 0, len(form.File))
			for k := range form.File {
				if strings.HasPrefix(k, filePrefix) && len(k) > len(filePrefix) {
					fields = append(fields, k)
				}
			}
			sort.Strings(fields)
			for _, k := range fields {
				alias := strings.TrimPrefix(k, filePrefix)
				for _, fh := range form.File[k] {
					f, err := stager.Stage(ctx, 0, alias, fh)
					if err != nil {
						return writeServiceError(c, log, err)
					}
					staged = append(staged, f)
				}
			}
		} else if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		item, err := binder.Bind(ctx, req, staged)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		d, err := svc.Save(ctx, item)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(d)
	}
}
