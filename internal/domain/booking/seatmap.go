package booking

import (
	"strconv"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
)

// MaxRows bounds layouts to single-letter row labels.
const MaxRows = 26

// Layout is a theater's seat grid: a left block and a right block separated
// by an aisle. Right-block columns continue numbering after the left block.
type Layout struct {
	Rows      int `json:"rows"`
	LeftCols  int `json:"left_cols"`
	RightCols int `json:"right_cols"`
}

// Validate rejects layouts that cannot be labelled. Failures are
// *LayoutError naming the offending field.
func (l Layout) Validate() error {
	switch {
	case l.Rows < 1:
		return &LayoutError{Field: "rows", Reason: "theater needs at least one row"}
	case l.Rows > MaxRows:
		return &LayoutError{Field: "rows", Reason: "at most " + strconv.Itoa(MaxRows) + " rows can be labelled"}
	case l.LeftCols < 0:
		return &LayoutError{Field: "left_cols", Reason: "must not be negative"}
	case l.RightCols < 0:
		return &LayoutError{Field: "right_cols", Reason: "must not be negative"}
	case l.LeftCols+l.RightCols == 0:
		return &LayoutError{Field: "left_cols", Reason: "theater needs at least one column"}
	}
	return nil
}

// SeatLabel builds a seat identifier from a 0-indexed row and 1-indexed column.
func SeatLabel(row, col int) string {
	return string(rune('A'+row)) + strconv.Itoa(col)
}

// Contains reports whether id names a seat of this layout.
func (l Layout) Contains(id string) bool {
	if len(id) < 2 {
		return false
	}
	row := int(id[0]) - 'A'
	if row < 0 || row >= l.Rows || id[1] == '0' {
		return false
	}
	col, err := strconv.Atoi(id[1:])
	if err != nil {
		return false
	}
	return col >= 1 && col <= l.LeftCols+l.RightCols
}

// RenderState is how a seat is drawn and whether it can be clicked.
type RenderState string

const (
	StateNonSelectable RenderState = "non_selectable"
	StatePending       RenderState = "pending"
	StateConfirmed     RenderState = "confirmed"
	StateSelected      RenderState = "selected"
	StateAvailable     RenderState = "available"
)

// SeatSets are the server-side seat categories of one showtime.
// Nil slices are empty sets.
type SeatSets struct {
	NonSelectable   []string
	PendingPayment  []string
	PendingApproval []string
	Reserved        []string
	Approved        []string
	Confirmed       []string
}

// SetsFromDetail lifts the seat arrays out of a showtime snapshot.
func SetsFromDetail(d *backend.ShowtimeDetail) SeatSets {
	if d == nil {
		return SeatSets{}
	}
	return SeatSets{
		NonSelectable:   d.NonSelectable,
		PendingPayment:  d.PendingPaymentSeats,
		PendingApproval: d.PendingApprovalSeats,
		Reserved:        d.ReservedSeats,
		Approved:        d.ApprovedSeats,
		Confirmed:       d.ConfirmedSeats,
	}
}

type seatIndex struct {
	nonSelectable map[string]struct{}
	pending       map[string]struct{}
	confirmed     map[string]struct{}
}

func toSet(lists ...[]string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, list := range lists {
		for _, id := range list {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s SeatSets) index() seatIndex {
	return seatIndex{
		nonSelectable: toSet(s.NonSelectable),
		pending:       toSet(s.PendingPayment, s.PendingApproval, s.Reserved),
		confirmed:     toSet(s.Approved, s.Confirmed),
	}
}

// unavailable returns the server-side state of id, or "" if the server
// does not hold it.
func (ix seatIndex) unavailable(id string) RenderState {
	if _, ok := ix.nonSelectable[id]; ok {
		return StateNonSelectable
	}
	if _, ok := ix.pending[id]; ok {
		return StatePending
	}
	if _, ok := ix.confirmed[id]; ok {
		return StateConfirmed
	}
	return ""
}

func (ix seatIndex) classify(id string, selected map[string]struct{}) RenderState {
	if st := ix.unavailable(id); st != "" {
		return st
	}
	if _, ok := selected[id]; ok {
		return StateSelected
	}
	return StateAvailable
}

// Classify returns the render state of one seat. Priority is fixed:
// non-selectable, pending, confirmed, selected, available.
func Classify(sets SeatSets, selected []string, id string) RenderState {
	return sets.index().classify(id, toSet(selected))
}

// Seat is one cell of the rendered grid.
type Seat struct {
	ID    string      `json:"id"`
	State RenderState `json:"state"`
}

// Row is one row of the rendered grid.
type Row struct {
	Label string `json:"label"`
	Left  []Seat `json:"left"`
	Right []Seat `json:"right"`
}

// SeatMap is the full grid with a count per render state.
type SeatMap struct {
	Rows   []Row               `json:"rows"`
	Counts map[RenderState]int `json:"counts"`
}

// Resolve classifies every seat of the layout into exactly one render state.
func Resolve(layout Layout, sets SeatSets, selected []string) SeatMap {
	ix := sets.index()
	sel := toSet(selected)

	m := SeatMap{
		Rows:   make([]Row, 0, layout.Rows),
		Counts: make(map[RenderState]int, 5),
	}
	for r := 0; r < layout.Rows; r++ {
		row := Row{
			Label: string(rune('A' + r)),
			Left:  make([]Seat, 0, layout.LeftCols),
			Right: make([]Seat, 0, layout.RightCols),
		}
		for c := 1; c <= layout.LeftCols+layout.RightCols; c++ {
			id := SeatLabel(r, c)
			seat := Seat{ID: id, State: ix.classify(id, sel)}
			m.Counts[seat.State]++
			if c <= layout.LeftCols {
				row.Left = append(row.Left, seat)
			} else {
				row.Right = append(row.Right, seat)
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// Toggle flips id in the selection. Seats held by the server are left
// alone and changed is false. The input slice is never modified.
func Toggle(sets SeatSets, selected []string, id string) (next []string, changed bool) {
	next = make([]string, 0, len(selected)+1)
	if sets.index().unavailable(id) != "" {
		return append(next, selected...), false
	}

	found := false
	for _, s := range selected {
		if s == id {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, id)
	}
	return next, true
}

// Prune drops selected seats the server now holds, keeping order.
func Prune(sets SeatSets, selected []string) (kept, dropped []string) {
	ix := sets.index()
	kept = make([]string, 0, len(selected))
	for _, id := range selected {
		if ix.unavailable(id) != "" {
			dropped = append(dropped, id)
			continue
		}
		kept = append(kept, id)
	}
	return kept, dropped
}

// Total is the display amount for a selection.
func Total(seats int, price float64) float64 {
	return float64(seats) * price
}
