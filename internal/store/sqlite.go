package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"todobase/internal/todo"
)

// SQLiteStore persists todos in a local SQLite database, the default backend.
// Timestamps are stored as unix milliseconds; created_at ties fall back to
// rowid so rapid creates still list newest first.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

var _ todo.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) ListTodos(ctx context.Context, userIdentifier string) ([]todo.Todo, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, title, completed, user_identifier, created_at, updated_at
		 FROM todos
		 WHERE user_identifier = ?
		 ORDER BY created_at DESC, rowid DESC`, userIdentifier,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []todo.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, title, completed, user_identifier, created_at, updated_at
		 FROM todos WHERE id = ?`, id,
	)

	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, todo.ErrNotFound
		}
		return todo.Todo{}, err
	}
	return t, nil
}

func (s *SQLiteStore) CreateTodo(ctx context.Context, title, userIdentifier string) (todo.Todo, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO todos (id, title, completed, user_identifier, created_at, updated_at)
		 VALUES (?, ?, 0, ?, ?, ?)`,
		id, title, userIdentifier, now, now,
	)
	if err != nil {
		return todo.Todo{}, err
	}

	return todo.Todo{
		ID:             id,
		Title:          title,
		Completed:      false,
		UserIdentifier: userIdentifier,
		CreatedAt:      time.UnixMilli(now),
		UpdatedAt:      time.UnixMilli(now),
	}, nil
}

func (s *SQLiteStore) UpdateTodo(ctx context.Context, id string, patch todo.Patch) (todo.Todo, error) {
	if patch.Empty() {
		return s.GetTodo(ctx, id)
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Completed != nil {
		set = append(set, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}
	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UnixMilli())
	args = append(args, id)

	res, err := s.DB.ExecContext(ctx,
		`UPDATE todos SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return todo.Todo{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return todo.Todo{}, err
	}
	if n == 0 {
		return todo.Todo{}, todo.ErrNotFound
	}

	return s.GetTodo(ctx, id)
}

// DeleteTodo removes the row. A delete that matches nothing is not an error;
// the caller cannot distinguish it from a real delete.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (todo.Todo, error) {
	var t todo.Todo
	var completed int64
	var createdAt, updatedAt int64
	if err := row.Scan(&t.ID, &t.Title, &completed, &t.UserIdentifier, &createdAt, &updatedAt); err != nil {
		return todo.Todo{}, err
	}
	t.Completed = completed != 0
	t.CreatedAt = time.UnixMilli(createdAt)
	t.UpdatedAt = time.UnixMilli(updatedAt)
	return t, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
