// Package server implements the todobase HTTP API surface.
//
// Owns:
//   - HTTP routing, handlers, and request/response contracts
//   - The shared-secret API key guard (RequireAPIKey)
//   - The outbound chat automation webhook client
//
// Does not own:
//   - Persistence (internal/store) or operation semantics (internal/todo)
//   - The terminal UI, which calls the todo service directly and never
//     passes through this package
//
// Invariants:
//   - Every response body is a {success, data?, error?} envelope via writeJSON
//   - /todos routes run RequireAPIKey before any other work
//   - Store failures surface the store's own message; anything unexpected
//     degrades to a generic 500
package server
