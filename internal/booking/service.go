package booking

import (
	"context"
	"errors"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/item"
	"shareit/internal/logger"
	"shareit/internal/metrics"
	"shareit/internal/notify"
	"shareit/internal/user"
)

// Notifier receives booking events after they are committed.
type Notifier interface {
	Enqueue(ctx context.Context, ev notify.Event) error
}

type Service interface {
	Create(ctx context.Context, callerID, itemID int64, iv Interval) (*BookingWithDetails, error)
	GetByIDForViewer(ctx context.Context, callerID, bookingID int64) (*BookingWithDetails, error)
	UpdateStateByOwner(ctx context.Context, callerID, bookingID int64, approve bool) (*BookingWithDetails, error)
	ListForBooker(ctx context.Context, callerID int64, state State) ([]BookingWithDetails, error)
	ListForOwner(ctx context.Context, callerID int64, state State) ([]BookingWithDetails, error)
}

type service struct {
	bookingRepo Repository
	itemRepo    item.Repository
	userRepo    user.Repository
	notifier    Notifier
	now         func() time.Time
}

type Option func(*service)

// WithClock overrides the wall clock used for time based checks and filters.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithNotifier enables booking notifications.
func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func NewService(
	bookingRepo Repository,
	itemRepo item.Repository,
	userRepo user.Repository,
	opts ...Option,
) Service {
	s := &service{
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, callerID, itemID int64, iv Interval) (*BookingWithDetails, error) {
	logger.Info("create booking", "caller_id", callerID, "item_id", itemID)

	booker, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	it, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !it.Available {
		metrics.RecordRejection("unavailable")
		return nil, apperr.ConditionsNotMet("item %d is not available", itemID)
	}

	if it.OwnerID == callerID {
		metrics.RecordRejection("own_item")
		return nil, apperr.ConditionsNotMet("owner cannot book own item")
	}

	if err := ValidateInterval(iv, s.now()); err != nil {
		metrics.RecordRejection("invalid_interval")
		return nil, err
	}

	b, err := s.bookingRepo.Create(ctx, itemID, callerID, iv)
	if errors.Is(err, ErrOverlap) {
		metrics.RecordRejection("overlap")
		return nil, apperr.ConditionsNotMet("item %d is already booked for the requested time", itemID)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCreated()

	details := &BookingWithDetails{
		Booking:         *b,
		BookerName:      booker.Name,
		BookerEmail:     booker.Email,
		ItemName:        it.Name,
		ItemDescription: it.Description,
		ItemAvailable:   it.Available,
		ItemOwnerID:     it.OwnerID,
	}

	s.notifyOwner(ctx, details)

	return details, nil
}

func (s *service) GetByIDForViewer(ctx context.Context, callerID, bookingID int64) (*BookingWithDetails, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsViewer(callerID) {
		return nil, apperr.ConditionsNotMet("user %d is neither the booker nor the item owner of booking %d", callerID, bookingID)
	}

	return b, nil
}

func (s *service) UpdateStateByOwner(ctx context.Context, callerID, bookingID int64, approve bool) (*BookingWithDetails, error) {
	logger.Info("update booking state", "caller_id", callerID, "booking_id", bookingID, "approve", approve)

	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.ItemOwnerID != callerID {
		return nil, apperr.ConditionsNotMet("only the item owner can approve or reject booking %d", bookingID)
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}

	if !b.Status.CanTransition(target) {
		return nil, apperr.ConditionsNotMet("booking %d can only transition from WAITING, current status is %s", bookingID, b.Status)
	}

	updated, err := s.bookingRepo.UpdateStatusIfWaiting(ctx, bookingID, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with another approve/reject.
		return nil, apperr.ConditionsNotMet("booking %d can only transition from WAITING", bookingID)
	}

	b.Status = target
	metrics.RecordTransition(string(target))

	s.notifyBooker(ctx, b)

	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, callerID int64, state State) ([]BookingWithDetails, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindByBooker(ctx, callerID, state, s.now())
}

func (s *service) ListForOwner(ctx context.Context, callerID int64, state State) ([]BookingWithDetails, error) {
	if err := s.requireUser(ctx, callerID); err != nil {
		return nil, err
	}
	return s.bookingRepo.FindByItemOwner(ctx, callerID, state, s.now())
}

func (s *service) requireUser(ctx context.Context, id int64) error {
	ok, err := s.userRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("user %d not found", id)
	}
	return nil
}

func (s *service) notifyOwner(ctx context.Context, b *BookingWithDetails) {
	if s.notifier == nil {
		return
	}

	owner, err := s.userRepo.FindByID(ctx, b.ItemOwnerID)
	if err != nil {
		logger.WithError(err).Warnw("skip booking notification: owner lookup failed", "booking_id", b.ID)
		return
	}

	s.enqueue(ctx, notify.Event{
		Kind:      notify.KindBookingRequested,
		BookingID: b.ID,
		To:        owner.Email,
		Name:      owner.Name,
		ItemName:  b.ItemName,
		Start:     b.Start,
		End:       b.End,
	})
}

func (s *service) notifyBooker(ctx context.Context, b *BookingWithDetails) {
	if s.notifier == nil {
		return
	}

	kind := notify.KindBookingRejected
	if b.Status == StatusApproved {
		kind = notify.KindBookingApproved
	}

	s.enqueue(ctx, notify.Event{
		Kind:      kind,
		BookingID: b.ID,
		To:        b.BookerEmail,
		Name:      b.BookerName,
		ItemName:  b.ItemName,
		Start:     b.Start,
		End:       b.End,
	})
}

// Notifications are best effort and never fail the booking operation.
func (s *service) enqueue(ctx context.Context, ev notify.Event) {
	if err := s.notifier.Enqueue(ctx, ev); err != nil {
		logger.WithError(err).Warnw("booking notification not queued", "booking_id", ev.BookingID, "kind", ev.Kind)
	}
}
