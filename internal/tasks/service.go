package tasks

import (
	"context"
)

// Service wraps task business rules. The acting identity is always the
// ownerID argument, which handlers derive from the verified request
// context, never from client input.
type Service struct {
	repo  Repository
	cache *ListCache
}

// NewService constructs a new Service.
func NewService(repo Repository, cache *ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns the owner's tasks, served from cache when warm.
func (s *Service) List(ctx context.Context, ownerID int64) ([]Task, error) {
	return s.cache.Fetch(ctx, ownerID, func(ctx context.Context) ([]Task, error) {
		return s.repo.ListByOwner(ctx, ownerID)
	})
}

// Create persists a task stamped with the owner.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateTaskRequest) (*Task, error) {
	task, err := s.repo.Create(ctx, ownerID, req.Title, req.Completed)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, ownerID)
	return task, nil
}

// Update applies changes to an owned task. A foreign or missing id
// surfaces as ErrNotFound.
func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateTaskRequest) (*Task, error) {
	task, err := s.repo.Update(ctx, ownerID, id, req)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, ownerID)
	return task, nil
}

// Delete removes an owned task. A foreign or missing id surfaces as
// ErrNotFound.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, ownerID)
	return nil
}
