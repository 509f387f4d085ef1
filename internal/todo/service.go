package todo

import (
	"context"
	"errors"
	"strings"
)

// Store is the persistence contract the service runs against.
// Implementations must return ErrNotFound (possibly wrapped) when an id
// matches no row, and must report zero-row deletes as success.
type Store interface {
	ListTodos(ctx context.Context, userIdentifier string) ([]Todo, error)
	GetTodo(ctx context.Context, id string) (Todo, error)
	CreateTodo(ctx context.Context, title, userIdentifier string) (Todo, error)
	UpdateTodo(ctx context.Context, id string, patch Patch) (Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Service implements the todo operations over a Store. Every operation is a
// single store round trip with no retries and no state cached between calls.
//
// Service has two entry points: the HTTP handlers, which sit behind the API
// key guard, and in-process callers such as the terminal UI, which carry no
// authentication at all. The direct path is only reachable from code that
// already holds the store credentials; that asymmetry is deliberate and
// documented rather than papered over.
type Service struct {
	store Store
}

// NewService returns a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the user's todos, newest created first. A user with no rows
// gets an empty slice, not an error.
func (s *Service) List(ctx context.Context, userIdentifier string) ([]Todo, error) {
	if strings.TrimSpace(userIdentifier) == "" {
		return nil, &ValidationError{Reason: "user_identifier is required"}
	}
	todos, err := s.store.ListTodos(ctx, userIdentifier)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	if todos == nil {
		todos = []Todo{}
	}
	return todos, nil
}

// Get returns a single todo by id.
func (s *Service) Get(ctx context.Context, id string) (Todo, error) {
	if id == "" {
		return Todo{}, &ValidationError{Reason: "id is required"}
	}
	t, err := s.store.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, &StoreError{Op: "get", Err: err}
	}
	return t, nil
}

// Create inserts a new todo with completed=false and returns the stored row
// including the generated id and timestamps. Both arguments must be non-empty
// after trimming.
func (s *Service) Create(ctx context.Context, title, userIdentifier string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, &ValidationError{Reason: "title is required"}
	}
	if strings.TrimSpace(userIdentifier) == "" {
		return Todo{}, &ValidationError{Reason: "user_identifier is required"}
	}
	t, err := s.store.CreateTodo(ctx, title, userIdentifier)
	if err != nil {
		return Todo{}, &StoreError{Op: "create", Err: err}
	}
	return t, nil
}

// Update applies a partial patch and returns the updated row. Fields absent
// from the patch keep their stored values. An empty patch is a no-op that
// returns the current row; the HTTP layer rejects empty patches before
// calling here, the direct path does not.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Todo, error) {
	if id == "" {
		return Todo{}, &ValidationError{Reason: "id is required"}
	}
	t, err := s.store.UpdateTodo(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, &StoreError{Op: "update", Err: err}
	}
	return t, nil
}

// Toggle sets completed to the caller-supplied value. The value is computed
// on the client from the last state it saw, so two concurrent togglers can
// overwrite each other without detection; that lost update is accepted
// behavior, not a bug to work around here.
func (s *Service) Toggle(ctx context.Context, id string, completed bool) (Todo, error) {
	return s.Update(ctx, id, Patch{Completed: &completed})
}

// Delete removes the row unconditionally. Deleting an id that no longer
// exists is success; the store does not report zero-row deletes, so callers
// cannot tell "deleted" from "already absent".
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Reason: "id is required"}
	}
	if err := s.store.DeleteTodo(ctx, id); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}
