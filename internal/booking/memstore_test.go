package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/item"
	"shareit/internal/user"
)

// memStore is an in-memory Repository plus the user and item directories
// it joins against. One mutex makes Create atomic.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]Booking
	users    map[int64]user.User
	items    map[int64]item.Item
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[int64]Booking{},
		users:    map[int64]user.User{},
		items:    map[int64]item.Item{},
	}
}

func (m *memStore) addUser(id int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = user.User{ID: id, Name: name, Email: name + "@example.com"}
}

func (m *memStore) addItem(id, ownerID int64, name string, available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = item.Item{ID: id, OwnerID: ownerID, Name: name, Available: available}
}

func (m *memStore) Create(_ context.Context, itemID, bookerID int64, iv Interval) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[itemID]; !ok {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	if m.overlapsLocked(itemID, iv) {
		return nil, ErrOverlap
	}

	m.nextID++
	b := Booking{
		ID:        m.nextID,
		ItemID:    itemID,
		BookerID:  bookerID,
		Start:     iv.Start,
		End:       iv.End,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
	m.bookings[b.ID] = b
	return &b, nil
}

func (m *memStore) overlapsLocked(itemID int64, iv Interval) bool {
	for _, b := range m.bookings {
		if b.ItemID == itemID && b.Status.Blocks() && b.Interval().Overlaps(iv) {
			return true
		}
	}
	return false
}

func (m *memStore) detailsLocked(b Booking) BookingWithDetails {
	u := m.users[b.BookerID]
	it := m.items[b.ItemID]
	return BookingWithDetails{
		Booking:         b,
		BookerName:      u.Name,
		BookerEmail:     u.Email,
		ItemName:        it.Name,
		ItemDescription: it.Description,
		ItemAvailable:   it.Available,
		ItemOwnerID:     it.OwnerID,
	}
}

func (m *memStore) FindByID(_ context.Context, id int64) (*BookingWithDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking %d not found", id)
	}
	d := m.detailsLocked(b)
	return &d, nil
}

func (m *memStore) FindByBooker(_ context.Context, bookerID int64, state State, now time.Time) ([]BookingWithDetails, error) {
	return m.filter(func(d BookingWithDetails) bool { return d.BookerID == bookerID }, state, now), nil
}

func (m *memStore) FindByItemOwner(_ context.Context, ownerID int64, state State, now time.Time) ([]BookingWithDetails, error) {
	return m.filter(func(d BookingWithDetails) bool { return d.ItemOwnerID == ownerID }, state, now), nil
}

func (m *memStore) filter(role func(BookingWithDetails) bool, state State, now time.Time) []BookingWithDetails {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []BookingWithDetails{}
	for _, b := range m.bookings {
		d := m.detailsLocked(b)
		if role(d) && state.Matches(b.Status, b.Interval(), now) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID > out[j].ID
		}
		return out[i].Start.After(out[j].Start)
	})
	return out
}

func (m *memStore) ExistsOverlapping(_ context.Context, itemID int64, iv Interval) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapsLocked(itemID, iv), nil
}

func (m *memStore) UpdateStatusIfWaiting(_ context.Context, id int64, status Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok || b.Status != StatusWaiting {
		return false, nil
	}
	b.Status = status
	m.bookings[id] = b
	return true, nil
}

// surviving returns WAITING/APPROVED bookings of an item.
func (m *memStore) surviving(itemID int64) []Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Booking
	for _, b := range m.bookings {
		if b.ItemID == itemID && b.Status.Blocks() {
			out = append(out, b)
		}
	}
	return out
}

type memUsers struct{ store *memStore }

func (u memUsers) Create(_ context.Context, name, email string) (*user.User, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	id := int64(len(u.store.users) + 1)
	nu := user.User{ID: id, Name: name, Email: email}
	u.store.users[id] = nu
	return &nu, nil
}

func (u memUsers) FindByID(_ context.Context, id int64) (*user.User, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	found, ok := u.store.users[id]
	if !ok {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return &found, nil
}

func (u memUsers) Exists(_ context.Context, id int64) (bool, error) {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	_, ok := u.store.users[id]
	return ok, nil
}

type memItems struct{ store *memStore }

func (i memItems) Create(_ context.Context, ownerID int64, name, description string, available bool) (*item.Item, error) {
	i.store.mu.Lock()
	defer i.store.mu.Unlock()
	id := int64(len(i.store.items) + 1)
	it := item.Item{ID: id, OwnerID: ownerID, Name: name, Description: description, Available: available}
	i.store.items[id] = it
	return &it, nil
}

func (i memItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	i.store.mu.Lock()
	defer i.store.mu.Unlock()
	it, ok := i.store.items[id]
	if !ok {
		return nil, apperr.NotFound("item %d not found", id)
	}
	return &it, nil
}
