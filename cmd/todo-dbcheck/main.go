package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"todobase/internal/store"
)

func main() {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/todobase.db"
	}

	db, err := store.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name;`)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	defer rows.Close()

	fmt.Println("Tables:")
	for rows.Next() {
		var name string
		_ = rows.Scan(&name)
		fmt.Println(" -", name)
	}

	var todos, users int
	_ = db.QueryRow(`SELECT COUNT(*) FROM todos;`).Scan(&todos)
	_ = db.QueryRow(`SELECT COUNT(DISTINCT user_identifier) FROM todos;`).Scan(&users)
	fmt.Println("Todos:", todos)
	fmt.Println("Users:", users)

	_ = sql.ErrNoRows // keeps sql imported if your IDE nags
}
