package booking

import (
	"context"
	"errors"
	"time"
)

// ErrOverlap is returned by Create when the item already has a WAITING or
// APPROVED booking intersecting the requested interval.
var ErrOverlap = errors.New("booking overlaps an existing booking")

type Repository interface {
	// Create checks for overlap and inserts in one atomic unit per item.
	Create(ctx context.Context, itemID, bookerID int64, iv Interval) (*Booking, error)
	FindByID(ctx context.Context, id int64) (*BookingWithDetails, error)
	FindByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]BookingWithDetails, error)
	FindByItemOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]BookingWithDetails, error)
	ExistsOverlapping(ctx context.Context, itemID int64, iv Interval) (bool, error)
	// UpdateStatusIfWaiting reports false when the booking had already left WAITING.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error)
}
