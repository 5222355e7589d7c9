package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"strings"

	"github.com/google/uuid"

	"contentapi/internal/model"
)

// Stager puts uploaded multipart files into a temporary area of the object store
// and removes them once the request that produced them is done.
type Stager struct {
	store  Storage
	prefix string
	log    *slog.Logger
}

// NewStager creates a Stager writing under prefix ("staging" when empty).
func NewStager(store Storage, prefix string, log *slog.Logger) *Stager {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "staging"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stager{store: store, prefix: prefix, log: log}
}

// Stage uploads fh and describes it as a file owned by the given property.
func (s *Stager) Stage(ctx context.Context, propertyID int64, alias string, fh *multipart.FileHeader) (model.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	key := path.Join(s.prefix, uuid.NewString()+strings.ToLower(path.Ext(fh.Filename)))

	info, err := s.store.Put(ctx, key, f, PutObjectOptions{
		Size:        fh.Size,
		ContentType: ct,
		Metadata: map[string]string{
			"original-filename": fh.Filename,
		},
	})
	if err != nil {
		return model.UploadedFile{}, fmt.Errorf("stage upload %s: %w", fh.Filename, err)
	}

	return model.UploadedFile{
		PropertyID:    propertyID,
		PropertyAlias: alias,
		Key:           info.Key,
		Filename:      fh.Filename,
		ContentType:   ct,
		Size:          fh.Size,
	}, nil
}

// Cleanup deletes every staged file. Failures are logged, not returned,
// because cleanup runs after the response outcome is already decided.
func (s *Stager) Cleanup(ctx context.Context, files []model.UploadedFile) {
	for _, f := range files {
		if err := s.store.Delete(ctx, f.Key); err != nil {
			s.log.WarnContext(ctx, "failed to delete staged upload",
				slog.String("key", f.Key),
				slog.String("error", err.Error()),
			)
		}
	}
}
