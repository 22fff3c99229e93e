package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is a named temporal/status predicate used to list reservations.
// The set of states is closed: only the package-level values below exist,
// each one carrying the restriction it adds to a FilterBuilder.
type State struct {
	name     string
	restrict func(fb FilterBuilder, now time.Time) FilterBuilder
}

var (
	StateAll = State{
		name:     "ALL",
		restrict: func(fb FilterBuilder, _ time.Time) FilterBuilder { return fb },
	}

	// StateCurrent matches reservations with start <= now <= end.
	StateCurrent = State{
		name: "CURRENT",
		restrict: func(fb FilterBuilder, now time.Time) FilterBuilder {
			return fb.StartingAtOrBefore(now).EndingAtOrAfter(now)
		},
	}

	// StatePast matches reservations with end < now.
	StatePast = State{
		name: "PAST",
		restrict: func(fb FilterBuilder, now time.Time) FilterBuilder {
			return fb.EndingBefore(now)
		},
	}

	// StateFuture matches reservations with start > now.
	StateFuture = State{
		name: "FUTURE",
		restrict: func(fb FilterBuilder, now time.Time) FilterBuilder {
			return fb.StartingAfter(now)
		},
	}

	StateWaiting = State{
		name: "WAITING",
		restrict: func(fb FilterBuilder, _ time.Time) FilterBuilder {
			return fb.WithStatus(StatusWaiting)
		},
	}

	StateRejected = State{
		name: "REJECTED",
		restrict: func(fb FilterBuilder, _ time.Time) FilterBuilder {
			return fb.WithStatus(StatusRejected)
		},
	}
)

// States returns all known states in a stable order.
func States() []State {
	return []State{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}
}

// ParseState converts a case-insensitive state name into a State.
func ParseState(name string) (State, error) {
	wanted := strings.ToUpper(strings.TrimSpace(name))

	for _, state := range States() {
		if state.name == wanted {
			return state, nil
		}
	}

	return State{}, fmt.Errorf("%w: %s", ErrUnsupportedState, name)
}

func (s State) Name() string {
	return s.name
}

func (s State) String() string {
	return s.name
}

// IsValid reports whether s is one of the known states, the zero State is not.
func (s State) IsValid() bool {
	return s.restrict != nil
}

// Restrict adds the state's predicate, evaluated at now, to the builder.
func (s State) Restrict(fb FilterBuilder, now time.Time) FilterBuilder {
	if s.restrict == nil {
		return fb
	}

	return s.restrict(fb, now)
}

// Viewpoint selects whose reservations are listed for a user.
type Viewpoint int

const (
	// AsBooker lists the reservations the user made.
	AsBooker Viewpoint = iota

	// AsOwner lists the reservations made on items the user owns.
	AsOwner
)

// Scope restricts the builder to the user's reservations seen from the viewpoint.
func (v Viewpoint) Scope(fb FilterBuilder, userID uuid.UUID) FilterBuilder {
	if v == AsOwner {
		return fb.OnItemsOwnedBy(userID)
	}

	return fb.BookedBy(userID)
}

func (v Viewpoint) String() string {
	switch v {
	case AsBooker:
		return "booker"
	case AsOwner:
		return "owner"
	default:
		return "unknown"
	}
}
