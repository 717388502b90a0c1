package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spec-kit/chamados-service/internal/domain"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a TicketStore backed by a database/sql handle
// opened with the sqlite3 driver.
func NewSQLiteStore(db *sql.DB) TicketStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) ListOpen(ctx context.Context) ([]domain.OpenTicket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+openColumns+` FROM open_tickets ORDER BY opened_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.OpenTicket{}
	for rows.Next() {
		var t domain.OpenTicket
		if err := rows.Scan(
			&t.ID,
			&t.EstimatedDuration,
			&t.Client,
			&t.ProblemDescription,
			&t.Operator,
			&t.Executor,
			&t.StartClockTime,
			&t.OpenedDate,
			&t.EndClockTime,
			&t.TimerState,
			&t.TimerType,
			&t.AccumulatedTime,
			&t.StartTime,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// UpsertOpen probes for the id and replaces the row inside one transaction,
// so created-vs-replaced stays accurate under concurrent writers.
func (s *sqliteStore) UpsertOpen(ctx context.Context, t domain.OpenTicket) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback() //nolint:errcheck

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM open_tickets WHERE id=?)`, t.ID).Scan(&exists); err != nil {
		return false, err
	}

	const query = `
        INSERT OR REPLACE INTO open_tickets (` + openColumns + `)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, query,
		t.ID,
		t.EstimatedDuration,
		t.Client,
		t.ProblemDescription,
		t.Operator,
		t.Executor,
		t.StartClockTime,
		t.OpenedDate,
		t.EndClockTime,
		t.TimerState,
		t.TimerType,
		t.AccumulatedTime,
		t.StartTime,
	); err != nil {
		return false, err
	}
	return !exists, tx.Commit()
}

func (s *sqliteStore) DeleteOpen(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM open_tickets WHERE id=?`, id)
	return err
}

func (s *sqliteStore) ClearOpen(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM open_tickets`)
	return err
}

func (s *sqliteStore) ListArchived(ctx context.Context) ([]domain.ArchivedTicket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+archivedColumns+` FROM archived_tickets ORDER BY opened_date_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ArchivedTicket{}
	for rows.Next() {
		var t domain.ArchivedTicket
		if err := rows.Scan(
			&t.ID,
			&t.EstimatedDuration,
			&t.Client,
			&t.ProblemDescription,
			&t.Operator,
			&t.Executor,
			&t.OpenedDateTime,
			&t.EndClockTime,
			&t.ArchivedBy,
			&t.Start,
			&t.End,
			&t.ElapsedTime,
			&t.DeadlineStatus,
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

const sqliteUpsertArchived = `
        INSERT OR REPLACE INTO archived_tickets (` + archivedColumns + `)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`

func (s *sqliteStore) UpsertArchived(ctx context.Context, t domain.ArchivedTicket) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsertArchived, archivedArgs(t)...)
	return err
}

func (s *sqliteStore) ClearArchived(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM archived_tickets`)
	return err
}

func (s *sqliteStore) ArchiveOpen(ctx context.Context, t domain.ArchivedTicket, openID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, sqliteUpsertArchived, archivedArgs(t)...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM open_tickets WHERE id=?`, openID); err != nil {
		return err
	}
	return tx.Commit()
}

type sqliteBoardStore struct {
	db *sql.DB
}

// NewSQLiteBoardStore creates a BoardStore on the same sqlite handle.
func NewSQLiteBoardStore(db *sql.DB) BoardStore {
	return &sqliteBoardStore{db: db}
}

func (s *sqliteBoardStore) ListEntries(ctx context.Context, limit, offset int) ([]domain.BoardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, created_at FROM board_entries
         ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.BoardEntry{}
	for rows.Next() {
		var e domain.BoardEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *sqliteBoardStore) CreateEntry(ctx context.Context, entry *domain.BoardEntry) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO board_entries (title, description) VALUES (?,?)`,
		entry.Title, entry.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return s.db.QueryRowContext(ctx,
		`SELECT created_at FROM board_entries WHERE id=?`, id).Scan(&entry.CreatedAt)
}

func (s *sqliteBoardStore) GetEntry(ctx context.Context, id int64) (*domain.BoardEntry, error) {
	var e domain.BoardEntry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, created_at FROM board_entries WHERE id=?`, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("chamado", nil)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
