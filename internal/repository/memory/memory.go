// Package memory provides in-memory repositories for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// Store implements both repository interfaces on top of maps.
// Content is deep copied on the way in and out so callers never share state with the store.
type Store struct {
	mu         sync.RWMutex
	contents   map[int64]*model.Content
	types      map[string]*model.ContentType
	nextID     int64
	nextPropID int64
	now        func() time.Time
	saveCount  int
}

var (
	_ repository.ContentRepository     = contentRepo{}
	_ repository.ContentTypeRepository = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		contents: make(map[int64]*model.Content),
		types:    make(map[string]*model.ContentType),
		nextID:   1000,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddContentType registers a content type definition.
func (s *Store) AddContentType(ct *model.ContentType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[ct.Alias] = ct
}

// Seed stores content as is, without counting as a save. Used to preload fixtures.
func (s *Store) Seed(c *model.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := c.Clone()
	if stored.ID > s.nextID {
		s.nextID = stored.ID
	}
	for _, p := range stored.Properties {
		if p.ID > s.nextPropID {
			s.nextPropID = p.ID
		}
	}
	s.contents[stored.ID] = stored
}

// SaveCount returns how many times Save has been called.
func (s *Store) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveCount
}

func (s *Store) FindByAlias(_ context.Context, alias string) (*model.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.types[alias]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ct, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*model.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ct := range s.types {
		if ct.ID == id {
			return ct, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Contents exposes the content repository half of the store.
func (s *Store) Contents() repository.ContentRepository {
	return contentRepo{s}
}

type contentRepo struct{ s *Store }

func (r contentRepo) FindByID(ctx context.Context, id int64) (*model.Content, error) {
	return r.s.findContent(ctx, id)
}

func (r contentRepo) Save(ctx context.Context, c *model.Content) (*model.Content, error) {
	return r.s.Save(ctx, c)
}

func (s *Store) findContent(_ context.Context, id int64) (*model.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

// Save stores a copy of c, assigning ids to new content and properties.
func (s *Store) Save(_ context.Context, c *model.Content) (*model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCount++

	stored := c.Clone()
	now := s.now()
	if stored.ID == 0 {
		s.nextID++
		stored.ID = s.nextID
		stored.CreatedAt = now
	} else if _, ok := s.contents[stored.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored.UpdatedAt = now
	for _, p := range stored.Properties {
		if p.ID == 0 {
			s.nextPropID++
			p.ID = s.nextPropID
		}
	}
	s.contents[stored.ID] = stored
	return stored.Clone(), nil
}
