// Package cached decorates repositories with an in-process cache.
package cached

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// ContentTypes caches content type lookups by alias and by id.
// Misses are not cached so newly created content types show up immediately.
type ContentTypes struct {
	next  repository.ContentTypeRepository
	cache *gocache.Cache
}

var _ repository.ContentTypeRepository = (*ContentTypes)(nil)

// NewContentTypes wraps next. A non-positive ttl uses DefaultExpiration.
func NewContentTypes(next repository.ContentTypeRepository, ttl time.Duration) *ContentTypes {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &ContentTypes{
		next:  next,
		cache: gocache.New(ttl, DefaultCleanupInterval),
	}
}

func (c *ContentTypes) FindByAlias(ctx context.Context, alias string) (*model.ContentType, error) {
	return c.load(aliasKey(alias), func() (*model.ContentType, error) {
		return c.next.FindByAlias(ctx, alias)
	})
}

func (c *ContentTypes) FindByID(ctx context.Context, id int64) (*model.ContentType, error) {
	return c.load(idKey(id), func() (*model.ContentType, error) {
		return c.next.FindByID(ctx, id)
	})
}

// Flush drops every cached entry.
func (c *ContentTypes) Flush() {
	c.cache.Flush()
}

func (c *ContentTypes) load(key string, fetch func() (*model.ContentType, error)) (*model.ContentType, error) {
	if v, found := c.cache.Get(key); found {
		if ct, ok := v.(*model.ContentType); ok {
			return ct, nil
		}
	}
	ct, err := fetch()
	if err != nil {
		return nil, err
	}
	// content types are immutable once loaded, so both keys can share the pointer
	c.cache.SetDefault(aliasKey(ct.Alias), ct)
	c.cache.SetDefault(idKey(ct.ID), ct)
	return ct, nil
}

func aliasKey(alias string) string { return "alias:" + alias }

func idKey(id int64) string { return "id:" + strconv.FormatInt(id, 10) }
