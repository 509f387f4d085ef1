package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"todobase/internal/server"
	"todobase/internal/shared"
	"todobase/internal/store"
	"todobase/internal/todo"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "todod",
		ReportTimestamp: true,
	})

	// Config file via TODO_CONFIG, env vars override; fail fast on bad config.
	cfg, err := shared.LoadConfig(os.Getenv("TODO_CONFIG"))
	if err != nil {
		logger.Fatal("config", "err", err)
	}

	var st todo.Store
	switch cfg.Driver {
	case "sqlite":
		dbDir := filepath.Dir(cfg.DBPath)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0700); err != nil {
				logger.Fatal("create db dir", "dir", dbDir, "err", err)
			}
		}
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			logger.Fatal("open db", "path", cfg.DBPath, "err", err)
		}
		st = store.NewSQLiteStore(db)
	default: // "pgx" or "postgres", checked by Validate
		db, err := store.OpenPostgres(cfg.Driver, cfg.DSN)
		if err != nil {
			logger.Fatal("open db", "driver", cfg.Driver, "err", err)
		}
		st = store.NewPostgresStore(db)
	}

	api := &server.API{
		Todos:  todo.NewService(st),
		APIKey: cfg.APIKey,
		Log:    logger,
	}
	if cfg.WebhookURL != "" {
		api.Webhook = server.NewWebhookClient(cfg.WebhookURL)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", api.Health)
	mux.HandleFunc("/chat", api.RequireAPIKey(api.ChatRelay))
	mux.HandleFunc("/todos", api.RequireAPIKey(api.Collection))
	mux.HandleFunc("/todos/", api.RequireAPIKey(api.Item)) // prefix last

	logger.Info("listening", "addr", cfg.Addr, "driver", cfg.Driver)
	logger.Info("api key: via TODO_API_KEY")
	if cfg.WebhookURL != "" {
		logger.Info("chat webhook enabled")
	}

	logger.Fatal("server exited", "err", http.ListenAndServe(cfg.Addr, mux))
}
