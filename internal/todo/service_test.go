package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for exercising the service without a
// database. Insertion order doubles as creation order.
type fakeStore struct {
	rows   []Todo
	nextID int
	err    error // when set, every call fails with it
}

func (f *fakeStore) ListTodos(ctx context.Context, userIdentifier string) ([]Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Todo
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserIdentifier == userIdentifier {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeStore) GetTodo(ctx context.Context, id string) (Todo, error) {
	if f.err != nil {
		return Todo{}, f.err
	}
	for _, t := range f.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, ErrNotFound
}

func (f *fakeStore) CreateTodo(ctx context.Context, title, userIdentifier string) (Todo, error) {
	if f.err != nil {
		return Todo{}, f.err
	}
	f.nextID++
	now := time.Now()
	t := Todo{
		ID:             string(rune('a' + f.nextID)),
		Title:          title,
		UserIdentifier: userIdentifier,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.rows = append(f.rows, t)
	return t, nil
}

func (f *fakeStore) UpdateTodo(ctx context.Context, id string, patch Patch) (Todo, error) {
	if f.err != nil {
		return Todo{}, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.rows[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			f.rows[i].Completed = *patch.Completed
		}
		f.rows[i].UpdatedAt = time.Now()
		return f.rows[i], nil
	}
	return Todo{}, ErrNotFound
}

func (f *fakeStore) DeleteTodo(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil // zero-row delete is success
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "5551234567")
	assert.True(t, IsValidation(err), "empty title should be a validation error")

	_, err = svc.Create(ctx, "   ", "5551234567")
	assert.True(t, IsValidation(err), "whitespace title should be a validation error")

	_, err = svc.Create(ctx, "Buy milk", "")
	assert.True(t, IsValidation(err), "empty user_identifier should be a validation error")
}

func TestService_CreateThenList(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "Buy milk", "5551234567")
	require.NoError(t, err)
	assert.False(t, created.Completed, "new todos start incomplete")
	assert.NotEmpty(t, created.ID)

	todos, err := svc.List(ctx, "5551234567")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
}

func TestService_ListScopedByUser(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	_, err := svc.Create(ctx, "mine", "5551111111")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "theirs", "5552222222")
	require.NoError(t, err)

	todos, err := svc.List(ctx, "5551111111")
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "mine", todos[0].Title)
}

func TestService_ListEmptyIsNotError(t *testing.T) {
	svc := NewService(&fakeStore{})

	todos, err := svc.List(context.Background(), "5550000000")
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestService_UpdatePartial(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "original", "5551234567")
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := svc.Update(ctx, created.ID, Patch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.False(t, updated.Completed, "completed untouched by title-only patch")

	done := true
	updated, err = svc.Update(ctx, created.ID, Patch{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title, "title untouched by completed-only patch")
	assert.True(t, updated.Completed)
}

func TestService_UpdateEmptyPatchIsNoop(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "keep me", "5551234567")
	require.NoError(t, err)

	got, err := svc.Update(ctx, created.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "keep me", got.Title)
}

func TestService_UpdateMissingRow(t *testing.T) {
	svc := NewService(&fakeStore{})

	title := "x"
	_, err := svc.Update(context.Background(), "nope", Patch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ToggleIdempotent(t *testing.T) {
	svc := NewService(&fakeStore{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "toggle me", "5551234567")
	require.NoError(t, err)

	first, err := svc.Toggle(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := svc.Toggle(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, second.Completed)
}

func TestService_DeleteMissingIsSuccess(t *testing.T) {
	svc := NewService(&fakeStore{})

	err := svc.Delete(context.Background(), "never-existed")
	assert.NoError(t, err)
}

func TestService_StoreFailureWrapped(t *testing.T) {
	cause := errors.New("connection refused")
	svc := NewService(&fakeStore{err: cause})
	ctx := context.Background()

	_, err := svc.List(ctx, "5551234567")
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, cause, "store cause must stay reachable for the message passthrough")

	_, err = svc.Create(ctx, "x", "y")
	assert.ErrorAs(t, err, &se)

	err = svc.Delete(ctx, "z")
	assert.ErrorAs(t, err, &se)
}

func TestService_GetNotFound(t *testing.T) {
	svc := NewService(&fakeStore{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
