package booking

import (
	"strings"
	"time"

	"shareit/internal/apperr"
)

type Booking struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"itemId"`
	BookerID  int64     `db:"booker_id" json:"bookerId"`
	Start     time.Time `db:"start_time" json:"start"`
	End       time.Time `db:"end_time" json:"end"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// BookingWithDetails is a booking joined with its booker and item, so
// authorization never needs a second lookup.
type BookingWithDetails struct {
	Booking
	BookerName      string `db:"booker_name"`
	BookerEmail     string `db:"booker_email"`
	ItemName        string `db:"item_name"`
	ItemDescription string `db:"item_description"`
	ItemAvailable   bool   `db:"item_available"`
	ItemOwnerID     int64  `db:"item_owner_id"`
}

func (b *BookingWithDetails) IsViewer(userID int64) bool {
	return userID == b.BookerID || userID == b.ItemOwnerID
}

type CreateBookingRequest struct {
	ItemID int64  `json:"itemId" validate:"required,gt=0" example:"1"`
	Start  string `json:"start" validate:"required" example:"2030-01-10T10:00:00"`
	End    string `json:"end" validate:"required" example:"2030-01-11T10:00:00"`
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

func parseTime(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("%s must be a timestamp like 2006-01-02T15:04:05", field)
}

// Interval parses the request timestamps.
func (r CreateBookingRequest) Interval() (Interval, error) {
	start, err := parseTime("start", r.Start)
	if err != nil {
		return Interval{}, err
	}
	end, err := parseTime("end", r.End)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

type BookerResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Anna"`
	Email string `json:"email" example:"anna@example.com"`
}

type ItemResponse struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"Drill"`
	Description string `json:"description" example:"Cordless drill"`
	Available   bool   `json:"available" example:"true"`
	OwnerID     int64  `json:"ownerId" example:"2"`
}

type BookingResponse struct {
	ID     int64          `json:"id" example:"1"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Status Status         `json:"status" example:"WAITING"`
	Booker BookerResponse `json:"booker"`
	Item   ItemResponse   `json:"item"`
}

func NewBookingResponse(b *BookingWithDetails) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start.UTC(),
		End:    b.End.UTC(),
		Status: b.Status,
		Booker: BookerResponse{
			ID:    b.BookerID,
			Name:  b.BookerName,
			Email: b.BookerEmail,
		},
		Item: ItemResponse{
			ID:          b.ItemID,
			Name:        b.ItemName,
			Description: b.ItemDescription,
			Available:   b.ItemAvailable,
			OwnerID:     b.ItemOwnerID,
		},
	}
}

func NewBookingResponses(list []BookingWithDetails) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, NewBookingResponse(&list[i]))
	}
	return out
}
