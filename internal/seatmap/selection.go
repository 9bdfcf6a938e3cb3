package seatmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/mereapp/merechat/internal/api"
)

// DefaultMaxSelection caps how many seats one order may hold.
const DefaultMaxSelection = 6

var (
	// ErrSeatSold rejects any attempt to select a sold seat.
	ErrSeatSold = errors.New("seatmap: seat is sold")
	// ErrSelectionFull rejects selection beyond the cap; the existing
	// selection is left untouched.
	ErrSelectionFull = errors.New("seatmap: selection limit reached")
	// ErrUnknownSeat marks a seat id not present in the layout.
	ErrUnknownSeat = errors.New("seatmap: unknown seat")
	// ErrNothingSelected rejects reserving an empty selection.
	ErrNothingSelected = errors.New("seatmap: no seats selected")
)

// Reserver submits a batch reservation; *api.Client implements it.
type Reserver interface {
	ReserveSeats(ctx context.Context, seatIDs []string) (api.ReserveResult, error)
}

// Selection tracks the seats picked on one layout, in pick order. Toggling a
// selected seat removes it; selecting past the cap or selecting a sold seat
// is rejected without changing the selection.
type Selection struct {
	layout *Layout
	max    int
	order  []string
	byID   map[string]*Seat
}

// NewSelection creates an empty selection over the layout. max <= 0 uses
// DefaultMaxSelection.
func NewSelection(layout *Layout, max int) *Selection {
	if max <= 0 {
		max = DefaultMaxSelection
	}
	return &Selection{
		layout: layout,
		max:    max,
		byID:   make(map[string]*Seat),
	}
}

// Toggle selects or deselects the seat. It returns whether the seat is
// selected after the call.
func (s *Selection) Toggle(seatID string) (bool, error) {
	if _, ok := s.byID[seatID]; ok {
		delete(s.byID, seatID)
		for i, id := range s.order {
			if id == seatID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false, nil
	}

	seat, _, _ := s.layout.FindSeat(seatID)
	if seat == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	if seat.Status == StatusSold {
		return false, fmt.Errorf("%w: %s", ErrSeatSold, seatID)
	}
	if len(s.order) >= s.max {
		return false, fmt.Errorf("%w: maximum %d seats allowed", ErrSelectionFull, s.max)
	}

	s.order = append(s.order, seatID)
	s.byID[seatID] = seat
	return true, nil
}

// Selected reports whether a seat is currently selected.
func (s *Selection) Selected(seatID string) bool {
	_, ok := s.byID[seatID]
	return ok
}

// Seats returns the selected seats in pick order.
func (s *Selection) Seats() []Seat {
	out := make([]Seat, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// IDs returns the selected seat ids in pick order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of selected seats.
func (s *Selection) Count() int {
	return len(s.order)
}

// Total sums the selected seats' prices.
func (s *Selection) Total() int {
	total := 0
	for _, id := range s.order {
		total += s.byID[id].Price
	}
	return total
}

// Clear drops the selection without touching seat state.
func (s *Selection) Clear() {
	s.order = nil
	s.byID = make(map[string]*Seat)
}

// Reserve submits the whole selection as one batch. The batch is
// all-or-nothing: on success every selected seat is marked sold in the layout
// and the selection is cleared; on rejection or error the selection stays
// intact so the user can retry or adjust.
func (s *Selection) Reserve(ctx context.Context, r Reserver) (api.ReserveResult, error) {
	if len(s.order) == 0 {
		return api.ReserveResult{}, ErrNothingSelected
	}

	res, err := r.ReserveSeats(ctx, s.IDs())
	if err != nil {
		return api.ReserveResult{}, fmt.Errorf("seatmap: reserve: %w", err)
	}
	if !res.OK {
		return res, nil
	}

	for _, id := range s.order {
		s.byID[id].Status = StatusSold
	}
	s.Clear()
	return res, nil
}
