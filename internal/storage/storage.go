package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

// Store writes and reads scraped records.
type Store struct {
	pool *pgxpool.Pool
}

// NewPool connects a pgx pool to the scrape database and verifies it is
// reachable.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// New creates a Store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SaveAll writes one scrape run in a single transaction, every record
// stamped with the same scrape time. Any failure rolls the whole run
// back; the table never holds part of a run.
func (s *Store) SaveAll(ctx context.Context, records []event.Record) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	scrapedAt := time.Now().UTC()
	for i := range records {
		if err := insertRecord(ctx, tx, &records[i], scrapedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx pgx.Tx, r *event.Record, scrapedAt time.Time) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid record: %w", err)
	}

	var restriction *string
	if r.HasAgeRestriction() {
		restriction = &r.AgeRestriction
	}

	const stmt = `
INSERT INTO volunteering_events (title, address, age_restriction, ongoing, scraped_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	var id int64
	if err := tx.QueryRow(ctx, stmt,
		r.Title, r.Address, restriction, r.Schedule.Ongoing, scrapedAt,
	).Scan(&id); err != nil {
		return fmt.Errorf("insert event %q: %w", r.Title, err)
	}

	const shiftStmt = `
INSERT INTO event_shifts (event_id, shift_index, shift_date)
VALUES ($1, $2, $3)`
	for i, shift := range r.Schedule.Shifts {
		if _, err := tx.Exec(ctx, shiftStmt, id, i, shift); err != nil {
			return fmt.Errorf("insert shift %d of %q: %w", i, r.Title, err)
		}
	}
	return nil
}

// RecentEvents returns up to limit records, most recently scraped
// first. Shifts come back in the order the site listed them.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]event.Record, error) {
	const query = `
SELECT id, title, address, COALESCE(age_restriction, ''), ongoing
FROM volunteering_events
ORDER BY scraped_at DESC, id ASC
LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	records := make([]event.Record, 0, limit)
	for rows.Next() {
		var (
			id      int64
			r       event.Record
			ongoing bool
		)
		if err := rows.Scan(&id, &r.Title, &r.Address, &r.AgeRestriction, &ongoing); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if ongoing {
			r.Schedule = event.OngoingSchedule()
		}
		ids = append(ids, id)
		records = append(records, r)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}

	shifts, err := s.shiftsByEvent(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		if dates := shifts[id]; len(dates) > 0 {
			records[i].Schedule = event.NewSchedule(dates)
		}
	}
	return records, nil
}

func (s *Store) shiftsByEvent(ctx context.Context, ids []int64) (map[int64][]time.Time, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
SELECT event_id, shift_date
FROM event_shifts
WHERE event_id = ANY($1)
ORDER BY event_id, shift_index`
	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	shifts := make(map[int64][]time.Time)
	for rows.Next() {
		var (
			eventID int64
			date    time.Time
		)
		if err := rows.Scan(&eventID, &date); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts[eventID] = append(shifts[eventID], date)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate shifts: %w", rows.Err())
	}
	return shifts, nil
}
