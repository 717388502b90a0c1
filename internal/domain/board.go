package domain

import "time"

// BoardEntry is a free-form post on the generic chamados board. Unlike
// tickets, entries are keyed by a database-assigned sequence.
type BoardEntry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
