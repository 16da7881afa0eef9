package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bettercorq/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns the candidate event catalog stored in candidate_events.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) List(ctx context.Context) ([]domain.CandidateEvent, error) {
	query := `
		SELECT name, start_at, end_at, location, organization, source
		FROM candidate_events
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.CandidateEvent{}
	for rows.Next() {
		var e domain.CandidateEvent
		if err := rows.Scan(&e.Name, &e.Start, &e.End, &e.Location, &e.Organization, &e.Source); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ReplaceAll swaps the whole catalog in one transaction, keeping the order of events.
func (r *eventRepository) ReplaceAll(ctx context.Context, events []domain.CandidateEvent) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM candidate_events`); err != nil {
		return err
	}
	query := `
		INSERT INTO candidate_events (position, name, start_at, end_at, location, organization, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, e := range events {
		if _, err = tx.ExecContext(ctx, query, i, e.Name, e.Start, e.End, e.Location, e.Organization, e.Source); err != nil {
			return fmt.Errorf("insert event %q: %w", e.Name, err)
		}
	}
	return tx.Commit()
}
