package notify

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindBookingRequested Kind = "booking_requested"
	KindBookingApproved  Kind = "booking_approved"
	KindBookingRejected  Kind = "booking_rejected"
)

// Event is one queued booking notification addressed to a single user.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	BookingID int64     `json:"booking_id"`
	To        string    `json:"to"`
	Name      string    `json:"name"`
	ItemName  string    `json:"item_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Tries     int       `json:"tries"`
	Created   time.Time `json:"created"`
}

const timeLayout = "Jan 2, 2006 at 3:04 PM"

func render(ev Event) (subject, body string) {
	when := fmt.Sprintf("%s - %s", ev.Start.Format(timeLayout), ev.End.Format(timeLayout))

	switch ev.Kind {
	case KindBookingRequested:
		subject = "New booking request - " + ev.ItemName
		body = fmt.Sprintf(`Hi %s,

Someone wants to borrow your item.

Item: %s
When: %s
Booking: #%d

Approve or reject it from your bookings page.

- ShareIt`, ev.Name, ev.ItemName, when, ev.BookingID)
	case KindBookingApproved:
		subject = "Booking approved - " + ev.ItemName
		body = fmt.Sprintf(`Hi %s,

Your booking was approved by the owner.

Item: %s
When: %s
Booking: #%d

- ShareIt`, ev.Name, ev.ItemName, when, ev.BookingID)
	case KindBookingRejected:
		subject = "Booking rejected - " + ev.ItemName
		body = fmt.Sprintf(`Hi %s,

Unfortunately the owner rejected your booking.

Item: %s
When: %s
Booking: #%d

- ShareIt`, ev.Name, ev.ItemName, when, ev.BookingID)
	default:
		subject = "ShareIt notification"
		body = fmt.Sprintf("Hi %s,\n\nBooking #%d was updated.\n\n- ShareIt", ev.Name, ev.BookingID)
	}

	return subject, body
}
