package waitlist

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Entry is a newsletter/waitlist signup
type Entry struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	Email            string       `db:"email" json:"email"`
	Name             string       `db:"name" json:"name"`
	UnsubscribeToken uuid.UUID    `db:"unsubscribe_token" json:"-"`
	UnsubscribedAt   sql.NullTime `db:"unsubscribed_at" json:"-"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

// IsSubscribed reports whether the entry still receives mail
func (e *Entry) IsSubscribed() bool {
	return !e.UnsubscribedAt.Valid
}
