package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"todobase/internal/todo"
)

// OpenPostgres opens a Postgres connection pool through database/sql.
// driverName selects the registered driver, "pgx" or "postgres" (lib/pq).
// Schema management is external: run cmd/todo-migrate before serving.
func OpenPostgres(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresStore persists todos in Postgres. Ids and timestamps are assigned
// by the database (gen_random_uuid(), now()).
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

var _ todo.Store = (*PostgresStore)(nil)

const pgTodoColumns = `id, title, completed, user_identifier, created_at, updated_at`

func (s *PostgresStore) ListTodos(ctx context.Context, userIdentifier string) ([]todo.Todo, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+pgTodoColumns+`
		 FROM todos
		 WHERE user_identifier = $1
		 ORDER BY created_at DESC`, userIdentifier,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var todos []todo.Todo
	for rows.Next() {
		var t todo.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.UserIdentifier, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (s *PostgresStore) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+pgTodoColumns+` FROM todos WHERE id = $1`, id,
	)
	return scanPGTodo(row)
}

func (s *PostgresStore) CreateTodo(ctx context.Context, title, userIdentifier string) (todo.Todo, error) {
	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO todos (title, user_identifier)
		 VALUES ($1, $2)
		 RETURNING `+pgTodoColumns, title, userIdentifier,
	)
	t, err := scanPGTodo(row)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) UpdateTodo(ctx context.Context, id string, patch todo.Patch) (todo.Todo, error) {
	if patch.Empty() {
		return s.GetTodo(ctx, id)
	}

	set := make([]string, 0, 3)
	args := make([]any, 0, 3)
	argIdx := 1
	if patch.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *patch.Title)
		argIdx++
	}
	if patch.Completed != nil {
		set = append(set, fmt.Sprintf("completed = $%d", argIdx))
		args = append(args, *patch.Completed)
		argIdx++
	}
	set = append(set, "updated_at = now()")
	args = append(args, id)

	row := s.DB.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE todos SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(set, ", "), argIdx, pgTodoColumns), args...,
	)
	return scanPGTodo(row)
}

func (s *PostgresStore) DeleteTodo(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func scanPGTodo(row *sql.Row) (todo.Todo, error) {
	var t todo.Todo
	err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.UserIdentifier, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return todo.Todo{}, todo.ErrNotFound
		}
		return todo.Todo{}, err
	}
	return t, nil
}
