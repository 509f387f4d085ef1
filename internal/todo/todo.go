package todo

import "time"

// Todo is the single persisted entity: one task line owned by a user
// identifier. The identifier is a normalized phone-number string used as the
// partition key, not a verified account.
type Todo struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Completed      bool      `json:"completed"`
	UserIdentifier string    `json:"user_identifier"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Patch carries a partial update. Nil fields are left unchanged; a non-nil
// pointer to a zero value is an explicit write, not an omission.
type Patch struct {
	Title     *string
	Completed *bool
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool { return p.Title == nil && p.Completed == nil }
