package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPrecedence(t *testing.T) {
	sets := SeatSets{
		NonSelectable:   []string{"A1"},
		PendingPayment:  []string{"A1", "A2"},
		PendingApproval: []string{"A3"},
		Reserved:        []string{"A4"},
		Approved:        []string{"A2", "A5"},
		Confirmed:       []string{"A6"},
	}
	selected := []string{"A1", "A5", "A7"}

	tests := []struct {
		seat string
		want RenderState
	}{
		{"A1", StateNonSelectable},
		{"A2", StatePending},
		{"A3", StatePending},
		{"A4", StatePending},
		{"A5", StateConfirmed},
		{"A6", StateConfirmed},
		{"A7", StateSelected},
		{"A8", StateAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.seat, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(sets, selected, tt.seat))
		})
	}
}

func TestClassifyNilSetsAreEmpty(t *testing.T) {
	assert.Equal(t, StateAvailable, Classify(SeatSets{}, nil, "B3"))
	assert.Equal(t, StateSelected, Classify(SeatSets{}, []string{"B3"}, "B3"))
}

func TestResolveNumbersRightBlockAfterLeft(t *testing.T) {
	layout := Layout{Rows: 2, LeftCols: 3, RightCols: 2}
	m := Resolve(layout, SeatSets{Confirmed: []string{"B5"}}, []string{"A4"})

	require.Len(t, m.Rows, 2)
	assert.Equal(t, "A", m.Rows[0].Label)
	assert.Equal(t, "B", m.Rows[1].Label)

	ids := func(seats []Seat) []string {
		out := make([]string, len(seats))
		for i, s := range seats {
			out[i] = s.ID
		}
		return out
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, ids(m.Rows[0].Left))
	assert.Equal(t, []string{"A4", "A5"}, ids(m.Rows[0].Right))
	assert.Equal(t, StateSelected, m.Rows[0].Right[0].State)
	assert.Equal(t, StateConfirmed, m.Rows[1].Right[1].State)

	assert.Equal(t, 8, m.Counts[StateAvailable])
	assert.Equal(t, 1, m.Counts[StateSelected])
	assert.Equal(t, 1, m.Counts[StateConfirmed])
}

func TestToggle(t *testing.T) {
	sets := SeatSets{PendingPayment: []string{"C2"}, NonSelectable: []string{"C3"}}

	next, changed := Toggle(sets, nil, "C1")
	assert.True(t, changed)
	assert.Equal(t, []string{"C1"}, next)

	next, changed = Toggle(sets, next, "C1")
	assert.True(t, changed)
	assert.Empty(t, next)

	selected := []string{"C4"}
	for _, seat := range []string{"C2", "C3"} {
		next, changed = Toggle(sets, selected, seat)
		assert.False(t, changed, seat)
		assert.Equal(t, []string{"C4"}, next, seat)
	}
}

func TestToggleDoesNotModifyInput(t *testing.T) {
	selected := []string{"A1", "A2"}
	_, _ = Toggle(SeatSets{}, selected, "A1")
	assert.Equal(t, []string{"A1", "A2"}, selected)
}

func TestPrune(t *testing.T) {
	sets := SeatSets{Approved: []string{"A2"}, Reserved: []string{"A4"}}
	kept, dropped := Prune(sets, []string{"A1", "A2", "A3", "A4"})
	assert.Equal(t, []string{"A1", "A3"}, kept)
	assert.Equal(t, []string{"A2", "A4"}, dropped)
}

func TestTotal(t *testing.T) {
	selected := []string{"A1", "A2"}
	assert.Equal(t, 400000.0, Total(len(selected), 200000))
	assert.Equal(t, 0.0, Total(0, 200000))
}

func TestLayoutContains(t *testing.T) {
	layout := Layout{Rows: 3, LeftCols: 4, RightCols: 4}

	for _, id := range []string{"A1", "C8", "B5"} {
		assert.True(t, layout.Contains(id), id)
	}
	for _, id := range []string{"D1", "A9", "A0", "A01", "a1", "A", "", "A-1"} {
		assert.False(t, layout.Contains(id), id)
	}
}

func TestLayoutValidate(t *testing.T) {
	assert.NoError(t, Layout{Rows: 26, LeftCols: 5, RightCols: 5}.Validate())
	assert.ErrorIs(t, Layout{Rows: 27, LeftCols: 5}.Validate(), ErrInvalidLayout)
	assert.ErrorIs(t, Layout{Rows: 0, LeftCols: 5}.Validate(), ErrInvalidLayout)
	assert.ErrorIs(t, Layout{Rows: 5}.Validate(), ErrInvalidLayout)

	tests := []struct {
		layout Layout
		field  string
	}{
		{Layout{Rows: 0, LeftCols: 5}, "rows"},
		{Layout{Rows: 27, LeftCols: 5}, "rows"},
		{Layout{Rows: 5, LeftCols: -1, RightCols: 4}, "left_cols"},
		{Layout{Rows: 5, LeftCols: 4, RightCols: -2}, "right_cols"},
		{Layout{Rows: 5}, "left_cols"},
	}
	for _, tt := range tests {
		var lerr *LayoutError
		require.ErrorAs(t, tt.layout.Validate(), &lerr)
		assert.Equal(t, tt.field, lerr.Field, "%+v", tt.layout)
	}
}
