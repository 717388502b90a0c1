package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/chamados-service/internal/domain"
	apperrors "github.com/spec-kit/chamados-service/pkg/util"
)

const (
	openColumns = `id, estimated_duration, client, problem_description, operator, executor,
               start_clock_time, opened_date, end_clock_time, timer_state, timer_type,
               accumulated_time, start_time`
	archivedColumns = `id, estimated_duration, client, problem_description, operator, executor,
               opened_date_time, end_clock_time, archived_by, start_at, end_at,
               elapsed_time, deadline_status`
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a TicketStore backed by a pgx connection pool.
func NewPostgresStore(pool *pgxpool.Pool) TicketStore {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) ListOpen(ctx context.Context) ([]domain.OpenTicket, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+openColumns+` FROM open_tickets ORDER BY opened_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOpenTickets(rows)
}

func (s *postgresStore) UpsertOpen(ctx context.Context, t domain.OpenTicket) (bool, error) {
	const query = `
        INSERT INTO open_tickets (` + openColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (id) DO UPDATE SET
            estimated_duration=EXCLUDED.estimated_duration,
            client=EXCLUDED.client,
            problem_description=EXCLUDED.problem_description,
            operator=EXCLUDED.operator,
            executor=EXCLUDED.executor,
            start_clock_time=EXCLUDED.start_clock_time,
            opened_date=EXCLUDED.opened_date,
            end_clock_time=EXCLUDED.end_clock_time,
            timer_state=EXCLUDED.timer_state,
            timer_type=EXCLUDED.timer_type,
            accumulated_time=EXCLUDED.accumulated_time,
            start_time=EXCLUDED.start_time
        RETURNING (xmax = 0)`
	var created bool
	err := s.pool.QueryRow(ctx, query,
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
	).Scan(&created)
	return created, err
}

func (s *postgresStore) DeleteOpen(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM open_tickets WHERE id=$1`, id)
	return err
}

func (s *postgresStore) ClearOpen(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM open_tickets`)
	return err
}

func (s *postgresStore) ListArchived(ctx context.Context) ([]domain.ArchivedTicket, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+archivedColumns+` FROM archived_tickets ORDER BY opened_date_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArchivedTickets(rows)
}

func (s *postgresStore) UpsertArchived(ctx context.Context, t domain.ArchivedTicket) error {
	_, err := s.pool.Exec(ctx, upsertArchivedQuery, archivedArgs(t)...)
	return err
}

func (s *postgresStore) ClearArchived(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM archived_tickets`)
	return err
}

func (s *postgresStore) ArchiveOpen(ctx context.Context, t domain.ArchivedTicket, openID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, upsertArchivedQuery, archivedArgs(t)...); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM open_tickets WHERE id=$1`, openID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const upsertArchivedQuery = `
        INSERT INTO archived_tickets (` + archivedColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (id) DO UPDATE SET
            estimated_duration=EXCLUDED.estimated_duration,
            client=EXCLUDED.client,
            problem_description=EXCLUDED.problem_description,
            operator=EXCLUDED.operator,
            executor=EXCLUDED.executor,
            opened_date_time=EXCLUDED.opened_date_time,
            end_clock_time=EXCLUDED.end_clock_time,
            archived_by=EXCLUDED.archived_by,
            start_at=EXCLUDED.start_at,
            end_at=EXCLUDED.end_at,
            elapsed_time=EXCLUDED.elapsed_time,
            deadline_status=EXCLUDED.deadline_status`

func archivedArgs(t domain.ArchivedTicket) []any {
	return []any{
		t.ID,
		t.EstimatedDuration,
		t.Client,
		t.ProblemDescription,
		t.Operator,
		t.Executor,
		t.OpenedDateTime,
		t.EndClockTime,
		t.ArchivedBy,
		t.Start,
		t.End,
		t.ElapsedTime,
		t.DeadlineStatus,
	}
}

func scanOpenTickets(rows pgx.Rows) ([]domain.OpenTicket, error) {
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

func scanArchivedTickets(rows pgx.Rows) ([]domain.ArchivedTicket, error) {
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

type postgresBoardStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBoardStore creates a BoardStore backed by a pgx connection pool.
func NewPostgresBoardStore(pool *pgxpool.Pool) BoardStore {
	return &postgresBoardStore{pool: pool}
}

func (s *postgresBoardStore) ListEntries(ctx context.Context, limit, offset int) ([]domain.BoardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, created_at FROM board_entries
         ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
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

func (s *postgresBoardStore) CreateEntry(ctx context.Context, entry *domain.BoardEntry) error {
	const query = `
        INSERT INTO board_entries (title, description)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return s.pool.QueryRow(ctx, query, entry.Title, entry.Description).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (s *postgresBoardStore) GetEntry(ctx context.Context, id int64) (*domain.BoardEntry, error) {
	var e domain.BoardEntry
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, created_at FROM board_entries WHERE id=$1`, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("chamado", nil)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
