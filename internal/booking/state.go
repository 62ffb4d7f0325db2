package booking

import (
	"strings"
	"time"

	"shareit/internal/apperr"
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var validNext = map[Status][]Status{
	StatusWaiting: {StatusApproved, StatusRejected},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range validNext[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Blocks reports whether a booking in this status occupies its interval.
func (s Status) Blocks() bool {
	return s != StatusRejected
}

// State selects which bookings a list request returns.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// ParseState is case-insensitive; an empty value means ALL.
func ParseState(raw string) (State, error) {
	if strings.TrimSpace(raw) == "" {
		return StateAll, nil
	}
	upper := State(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range states {
		if s == upper {
			return s, nil
		}
	}
	return "", apperr.Validation("Unknown state: %s", raw)
}

// Matches is the in-process form of the filter the repository pushes into SQL.
func (s State) Matches(status Status, iv Interval, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return iv.Covers(now)
	case StatePast:
		return iv.End.Before(now)
	case StateFuture:
		return iv.Start.After(now)
	case StateWaiting:
		return status == StatusWaiting
	case StateRejected:
		return status == StatusRejected
	default:
		return false
	}
}

type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

func (r Role) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "booker"
}
