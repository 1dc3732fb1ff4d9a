package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelov/ticketlot/internal/model"
)

var _ model.EventStore = (*EventRepository)(nil)

const eventColumns = `id, name, event_date, total_tickets, notes, status, created_by, created_at, finalized_at`

type EventRepository struct {
	db *Connection
}

func NewEventRepository(db *Connection) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID, &event.Name, &event.EventDate, &event.TotalTickets,
		&event.Notes, &event.Status, &event.CreatedBy, &event.CreatedAt,
		&event.FinalizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, event model.Event) (model.Event, error) {
	query := `INSERT INTO events (id, name, event_date, total_tickets, notes, status, created_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Name, event.EventDate, event.TotalTickets,
		event.Notes, event.Status, event.CreatedBy, event.CreatedAt,
	))
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	return saved, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to get event by id: %w", err)
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event model.Event) (model.Event, error) {
	query := `UPDATE events
			  SET name = $2, event_date = $3, total_tickets = $4, notes = $5,
			      status = $6, finalized_at = $7
			  WHERE id = $1
			  RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRow(ctx, query,
		event.ID, event.Name, event.EventDate, event.TotalTickets,
		event.Notes, event.Status, event.FinalizedAt,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return saved, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Submissions go with the event via ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EventRepository) ListOpen(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'open' ORDER BY event_date ASC`
	return r.list(ctx, query)
}

func (r *EventRepository) ListPast(ctx context.Context, withinMonths int) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE status IN ('finalized', 'cancelled')`
	args := []any{}
	if withinMonths > 0 {
		query += ` AND event_date >= NOW() - make_interval(months => $1)`
		args = append(args, withinMonths)
	}
	query += ` ORDER BY event_date DESC`
	return r.list(ctx, query, args...)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
