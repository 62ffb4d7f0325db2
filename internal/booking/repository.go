package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// exclusion_violation, raised by bookings_no_overlap.
const pqExclusionViolation = "23P01"

const selectDetails = `
	SELECT b.id, b.item_id, b.booker_id, b.start_time, b.end_time, b.status, b.created_at,
	       u.name AS booker_name, u.email AS booker_email,
	       i.name AS item_name, i.description AS item_description,
	       i.available AS item_available, i.owner_id AS item_owner_id
	FROM bookings b
	JOIN users u ON u.id = b.booker_id
	JOIN items i ON i.id = b.item_id
`

const overlapQuery = `
	SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE item_id = $1
		  AND status <> 'REJECTED'
		  AND start_time < $3
		  AND end_time > $2
	)
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, itemID, bookerID int64, iv Interval) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	// Serialises concurrent creates for the same item.
	var lockedID int64
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock item %d: %w", itemID, err)
	}

	overlapping, err := db.Exists(ctx, tx, overlapQuery, itemID, iv.Start, iv.End)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlapping {
		return nil, ErrOverlap
	}

	query := `
		INSERT INTO bookings (item_id, booker_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, 'WAITING')
		RETURNING id, item_id, booker_id, start_time, end_time, status, created_at
	`

	var b Booking
	if err := tx.GetContext(ctx, &b, query, itemID, bookerID, iv.Start, iv.End); err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	return &b, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*BookingWithDetails, error) {
	var b BookingWithDetails
	err := r.db.GetContext(ctx, &b, selectDetails+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *repository) FindByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]BookingWithDetails, error) {
	return r.list(ctx, "b.booker_id", bookerID, state, now)
}

func (r *repository) FindByItemOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]BookingWithDetails, error) {
	return r.list(ctx, "i.owner_id", ownerID, state, now)
}

func (r *repository) list(ctx context.Context, column string, userID int64, state State, now time.Time) ([]BookingWithDetails, error) {
	cond, args := stateCondition(state, now)
	query := selectDetails + ` WHERE ` + column + ` = $1` + cond + ` ORDER BY b.start_time DESC, b.id DESC`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, append([]interface{}{userID}, args...)...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// stateCondition renders State.Matches as SQL. now, when needed, is $2.
func stateCondition(state State, now time.Time) (string, []interface{}) {
	switch state {
	case StateCurrent:
		return ` AND b.start_time <= $2 AND b.end_time >= $2`, []interface{}{now}
	case StatePast:
		return ` AND b.end_time < $2`, []interface{}{now}
	case StateFuture:
		return ` AND b.start_time > $2`, []interface{}{now}
	case StateWaiting:
		return ` AND b.status = 'WAITING'`, nil
	case StateRejected:
		return ` AND b.status = 'REJECTED'`, nil
	default:
		return "", nil
	}
}

func (r *repository) ExistsOverlapping(ctx context.Context, itemID int64, iv Interval) (bool, error) {
	return db.Exists(ctx, r.db, overlapQuery, itemID, iv.Start, iv.End)
}

func (r *repository) UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2 AND status = 'WAITING'`,
		string(status), id,
	)
	if err != nil {
		return false, fmt.Errorf("update booking %d status: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for booking %d: %w", id, err)
	}
	return n == 1, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqExclusionViolation
}
