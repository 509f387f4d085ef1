package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"todobase/internal/todo"
)

// Envelope is the uniform response shape for every API reply.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type API struct {
	Todos   *todo.Service
	APIKey  string
	Webhook *WebhookClient // nil when no webhook URL is configured
	Log     *log.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Success: false, Error: msg})
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 1<<20))
}

// RequireAPIKey guards the API surface as a whole with a single shared
// secret. A missing header or an unset server-side key is a deny, never
// "no auth required". There are no sessions and no per-user tokens.
func (a *API) RequireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" || a.APIKey == "" || key != a.APIKey {
			a.Log.Warn("unauthorized", "method", r.Method, "path", r.URL.Path)
			writeError(w, 401, "Unauthorized - Invalid or missing API key")
			return
		}
		next(w, r)
	}
}

// Health is the unauthenticated liveness probe.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, 200, map[string]string{"status": "ok"})
}

// Collection handles /todos: GET lists a user's todos, POST creates one.
func (a *API) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTodos(w, r)
	case http.MethodPost:
		a.createTodo(w, r)
	default:
		writeError(w, 405, "method not allowed")
	}
}

func (a *API) listTodos(w http.ResponseWriter, r *http.Request) {
	userIdentifier := r.URL.Query().Get("user_identifier")
	if userIdentifier == "" {
		writeError(w, 400, "user_identifier query parameter is required")
		return
	}

	todos, err := a.Todos.List(r.Context(), userIdentifier)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, 200, todos)
}

type createRequest struct {
	Title          string `json:"title"`
	UserIdentifier string `json:"user_identifier"`
}

// updateRequest distinguishes "field omitted" from "field set": pointers stay
// nil when the body leaves a field out. An explicit empty-string title is a
// provided value and gets written.
type updateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (a *API) createTodo(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, 400, "bad body")
		return
	}
	var req createRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.UserIdentifier) == "" {
		writeError(w, 400, "title and user_identifier are required")
		return
	}

	t, err := a.Todos.Create(r.Context(), req.Title, req.UserIdentifier)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, 201, t)
}

// Item handles /todos/{id}: GET fetches, PUT patches, DELETE removes.
func (a *API) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/todos/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, 404, "Todo not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getTodo(w, r, id)
	case http.MethodPut:
		a.updateTodo(w, r, id)
	case http.MethodDelete:
		a.deleteTodo(w, r, id)
	default:
		writeError(w, 405, "method not allowed")
	}
}

func (a *API) getTodo(w http.ResponseWriter, r *http.Request, id string) {
	t, err := a.Todos.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, 200, t)
}

func (a *API) updateTodo(w http.ResponseWriter, r *http.Request, id string) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, 400, "bad body")
		return
	}
	var req updateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, 400, "bad json")
		return
	}

	patch := todo.Patch{Title: req.Title, Completed: req.Completed}
	if patch.Empty() {
		writeError(w, 400, "No fields to update")
		return
	}

	t, err := a.Todos.Update(r.Context(), id, patch)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, 200, t)
}

// deleteTodo always answers 200 for a well-formed request; a delete that
// matched no row is indistinguishable from one that did.
func (a *API) deleteTodo(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.Todos.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, 200, map[string]string{"id": id})
}

type chatRequest struct {
	Message        string `json:"message"`
	UserIdentifier string `json:"user_identifier"`
}

// ChatRelay forwards a chat message to the configured automation webhook and
// returns its free-text reply. Keeping the webhook URL server-side means
// browsers and scripts only ever see this endpoint.
func (a *API) ChatRelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, 405, "method not allowed")
		return
	}
	if a.Webhook == nil {
		writeError(w, 503, "chat webhook not configured")
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, 400, "bad body")
		return
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.UserIdentifier) == "" {
		writeError(w, 400, "message and user_identifier are required")
		return
	}

	reply, err := a.Webhook.Send(r.Context(), req.Message, req.UserIdentifier)
	if err != nil {
		a.Log.Error("chat webhook failed", "err", err)
		writeError(w, 502, "chat webhook failed")
		return
	}
	writeData(w, 200, map[string]string{"reply": reply})
}

// fail maps service errors onto the envelope/status matrix. Validation and
// not-found are explicit; store failures pass the store's own message
// through; anything else is suppressed to a generic 500.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *todo.ValidationError
	var se *todo.StoreError
	switch {
	case errors.As(err, &ve):
		writeError(w, 400, ve.Reason)
	case errors.Is(err, todo.ErrNotFound):
		writeError(w, 404, "Todo not found")
	case errors.As(err, &se):
		a.Log.Error("store failure", "method", r.Method, "path", r.URL.Path, "err", se.Err)
		writeError(w, 500, se.Err.Error())
	default:
		a.Log.Error("unexpected failure", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, 500, "Internal server error")
	}
}
