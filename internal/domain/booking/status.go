package booking

import "strings"

// Status is the lifecycle label of a booking.
type Status string

const (
	StatusPendingPayment      Status = "pending_payment"
	StatusPendingVerification Status = "pending_verification"
	StatusPendingApproval     Status = "pending_approval"
	StatusApproved            Status = "approved"
	StatusConfirmed           Status = "confirmed"
	StatusAdminRejected       Status = "admin_rejected"
	StatusCancelled           Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPendingPayment,
	StatusPendingVerification,
	StatusPendingApproval,
	StatusApproved,
	StatusConfirmed,
	StatusAdminRejected,
	StatusCancelled,
}

// transitions is the complete table of allowed status changes.
// Statuses with no entry are terminal.
var transitions = map[Status][]Status{
	StatusPendingPayment:      {StatusPendingVerification, StatusPendingApproval, StatusAdminRejected, StatusCancelled},
	StatusPendingVerification: {StatusPendingApproval, StatusAdminRejected, StatusCancelled},
	StatusPendingApproval:     {StatusApproved, StatusAdminRejected, StatusCancelled},
	StatusApproved:            {StatusConfirmed, StatusAdminRejected, StatusCancelled},
	StatusConfirmed:           {},
	StatusAdminRejected:       {},
	StatusCancelled:           {},
}

// ParseStatus accepts only known statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", ErrUnknownStatus
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo checks if status transition is valid
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses s may move to, in lifecycle order.
func (s Status) AllowedTargets() []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Order is the lifecycle position of s; unknown statuses sort last.
func (s Status) Order() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}

// Label renders a status the way the dashboard shows it: "pending_approval" -> "PENDING APPROVAL".
func Label(status string) string {
	return strings.ToUpper(strings.ReplaceAll(status, "_", " "))
}
