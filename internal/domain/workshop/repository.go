package workshop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrWorkshopNotFound = errors.New("workshop not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const workshopColumns = `
	w.id, w.title, w.description, w.price, w.event_date, w.event_time,
	w.location, w.poster, w.created_at, w.updated_at,
	(SELECT count(*) FROM workshop_registrations wr
	 WHERE wr.workshop_id = w.id) AS registered_count
`

func (r *Repository) Create(ctx context.Context, ws *Workshop) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO workshops (title, description, price, event_date, event_time, location, poster)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, ws.Title, ws.Description, ws.Price, ws.EventDate, ws.EventTime, ws.Location, ws.Poster).
		Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("workshop repository create: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Workshop, error) {
	var ws Workshop
	err := r.db.GetContext(ctx, &ws,
		`SELECT `+workshopColumns+` FROM workshops w WHERE w.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkshopNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Workshop, error) {
	workshops := []Workshop{}
	err := r.db.SelectContext(ctx, &workshops, `
		SELECT `+workshopColumns+`
		FROM workshops w
		ORDER BY w.event_date DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return workshops, err
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM workshops`)
	return total, err
}

func (r *Repository) Latest(ctx context.Context, n int) ([]Workshop, error) {
	workshops := []Workshop{}
	err := r.db.SelectContext(ctx, &workshops, `
		SELECT `+workshopColumns+`
		FROM workshops w
		ORDER BY w.created_at DESC
		LIMIT $1
	`, n)
	return workshops, err
}

func (r *Repository) Update(ctx context.Context, ws *Workshop) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE workshops
		SET title = $1, description = $2, price = $3, event_date = $4,
		    event_time = $5, location = $6, updated_at = now()
		WHERE id = $7
	`, ws.Title, ws.Description, ws.Price, ws.EventDate, ws.EventTime, ws.Location, ws.ID)
	if err != nil {
		return fmt.Errorf("workshop repository update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

func (r *Repository) UpdatePoster(ctx context.Context, id int64, poster string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE workshops SET poster = $1, updated_at = now() WHERE id = $2`, poster, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}

// Registrations lists attendees of one workshop
func (r *Repository) Registrations(ctx context.Context, workshopID int64) ([]Registration, error) {
	if _, err := r.GetByID(ctx, workshopID); err != nil {
		return nil, err
	}

	regs := []Registration{}
	err := r.db.SelectContext(ctx, &regs, `
		SELECT wr.user_id, wr.workshop_id, wr.registered_at,
		       u.name AS user_name, u.email AS user_email
		FROM workshop_registrations wr
		LEFT JOIN users u ON u.id = wr.user_id
		WHERE wr.workshop_id = $1
		ORDER BY wr.registered_at
	`, workshopID)
	return regs, err
}

// ListRegistered returns the workshops a user signed up for
func (r *Repository) ListRegistered(ctx context.Context, userID int64) ([]Workshop, error) {
	workshops := []Workshop{}
	err := r.db.SelectContext(ctx, &workshops, `
		SELECT `+workshopColumns+`
		FROM workshops w
		JOIN workshop_registrations wr ON wr.workshop_id = w.id
		WHERE wr.user_id = $1
		ORDER BY w.event_date DESC
	`, userID)
	return workshops, err
}
