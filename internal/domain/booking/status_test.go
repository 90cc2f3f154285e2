package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPendingPayment, StatusPendingApproval, true},
		{StatusPendingPayment, StatusApproved, false},
		{StatusPendingVerification, StatusPendingApproval, true},
		{StatusPendingApproval, StatusApproved, true},
		{StatusApproved, StatusConfirmed, true},
		{StatusApproved, StatusPendingPayment, false},
		{StatusConfirmed, StatusPendingPayment, false},
		{StatusConfirmed, StatusCancelled, false},
		{StatusAdminRejected, StatusApproved, false},
		{StatusCancelled, StatusPendingPayment, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEveryStatusHasATableEntry(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
		for _, next := range s.AllowedTargets() {
			assert.True(t, next.Valid(), "%s -> %s", s, next)
			assert.NotEqual(t, s, next)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusAdminRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, Status("bogus").Terminal())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseStatus("refunded")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestAllowedTargetsIsACopy(t *testing.T) {
	targets := StatusPendingApproval.AllowedTargets()
	targets[0] = StatusCancelled
	assert.Equal(t, StatusApproved, StatusPendingApproval.AllowedTargets()[0])
}

func TestLabelAndOrder(t *testing.T) {
	assert.Equal(t, "PENDING APPROVAL", Label("pending_approval"))
	assert.Less(t, StatusPendingPayment.Order(), StatusConfirmed.Order())
	assert.Equal(t, len(Statuses), Status("unknown").Order())
}
