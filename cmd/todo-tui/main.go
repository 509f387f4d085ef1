package main

import (
	"flag"
	"fmt"
	"os"

	"todobase/internal/store"
	"todobase/internal/todo"
	"todobase/internal/tui"
)

// todo-tui is the direct-invocation client: it opens the store itself and
// drives the todo service in-process, with no HTTP and no API key. Anyone who
// can run it already has the database, so the guard would protect nothing.
func main() {
	user := flag.String("user", "", "user identifier (phone number) owning the todos")
	dbPath := flag.String("db", "", "sqlite database path (default $TODO_DB_PATH or ./data/todobase.db)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "usage: todo-tui -user <identifier> [-db path]")
		os.Exit(2)
	}

	path := *dbPath
	if path == "" {
		path = os.Getenv("TODO_DB_PATH")
	}
	if path == "" {
		path = "./data/todobase.db"
	}

	db, err := store.OpenDB(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db %s: %v\n", path, err)
		os.Exit(1)
	}
	defer db.Close()

	svc := todo.NewService(store.NewSQLiteStore(db))
	if err := tui.Run(svc, *user); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
