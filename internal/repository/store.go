package repository

import (
	"context"

	"github.com/spec-kit/chamados-service/internal/domain"
)

// TicketStore encapsulates durable ticket persistence across the two
// lifecycle tables. Every method is atomic and durable before it returns;
// callers get no cross-call ordering guarantee beyond the engine's own
// commit order.
type TicketStore interface {
	ListOpen(ctx context.Context) ([]domain.OpenTicket, error)
	// UpsertOpen inserts or fully replaces by id. It reports whether the
	// row was created rather than replaced.
	UpsertOpen(ctx context.Context, ticket domain.OpenTicket) (created bool, err error)
	// DeleteOpen removes the row if present; a missing id is not an error.
	DeleteOpen(ctx context.Context, id string) error
	ClearOpen(ctx context.Context) error

	ListArchived(ctx context.Context) ([]domain.ArchivedTicket, error)
	UpsertArchived(ctx context.Context, ticket domain.ArchivedTicket) error
	ClearArchived(ctx context.Context) error

	// ArchiveOpen upserts the archived row and deletes the open row with
	// the given id in a single transaction, so a crash never leaves the
	// ticket half-moved.
	ArchiveOpen(ctx context.Context, ticket domain.ArchivedTicket, openID string) error
}

// BoardStore persists generic board entries.
type BoardStore interface {
	ListEntries(ctx context.Context, limit, offset int) ([]domain.BoardEntry, error)
	CreateEntry(ctx context.Context, entry *domain.BoardEntry) error
	// GetEntry returns the entry or a NotFound domain error.
	GetEntry(ctx context.Context, id int64) (*domain.BoardEntry, error)
}
