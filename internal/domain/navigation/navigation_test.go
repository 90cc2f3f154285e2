package navigation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path       string
		view       View
		stage      Stage
		showtimeID int64
	}{
		{"/", ViewShowtimes, "", 0},
		{"", ViewShowtimes, "", 0},
		{"/showtimes", ViewShowtimes, "", 0},
		{"/admin", ViewAdmin, "", 0},
		{"/admin/login", ViewAdmin, "", 0},
		{"/admin/settings", ViewShowtimes, "", 0},
		{"/booking/12", ViewBooking, StageBooking, 12},
		{"/payment/7?x=1", ViewBooking, StagePayment, 7},
		{"/success/3", ViewBooking, StageSuccess, 3},
		{"/booking", ViewBooking, StageBooking, 0},
		{"/booking/abc", ViewBooking, StageBooking, 0},
		{"/nowhere", ViewShowtimes, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rt := Resolve(tt.path)
			assert.Equal(t, tt.view, rt.View)
			assert.Equal(t, tt.stage, rt.Stage)
			assert.Equal(t, tt.showtimeID, rt.ShowtimeID)
		})
	}
}

func newService() (*Service, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour, time.Minute)
	return NewService(store), store
}

func bookedFlow(sess *session.Session, showtimeID int64, step session.Step) {
	flow := sess.FlowFor(showtimeID)
	flow.SelectedSeats = []string{"A1", "A2"}
	flow.Customer = &session.Customer{Name: "Ana", Email: "ana@example.com", Phone: "+6281234567890"}
	flow.Booking = &session.BookingRef{BookingID: 42, TotalAmount: 400000, Status: "pending_payment"}
	flow.Step = step
}

func TestPaymentReloadRecoversBooking(t *testing.T) {
	svc, _ := newService()
	sess := session.New("s1", time.Now())
	bookedFlow(sess, 7, session.StepPayment)

	nav, err := svc.Navigate(context.Background(), sess, "/payment/7")
	require.NoError(t, err)
	assert.Empty(t, nav.Redirect)
	require.NotNil(t, nav.Recovered)
	assert.Equal(t, int64(42), nav.Recovered.BookingID)
	assert.Equal(t, []string{"A1", "A2"}, nav.Recovered.SelectedSeats)
	assert.Equal(t, "ana@example.com", nav.Recovered.Customer.Email)
}

func TestPaymentWithoutStateRedirectsToBooking(t *testing.T) {
	svc, _ := newService()

	sess := session.New("s1", time.Now())
	nav, err := svc.Navigate(context.Background(), sess, "/payment/7")
	require.NoError(t, err)
	assert.Equal(t, "/booking/7", nav.Redirect)
	assert.Nil(t, nav.Recovered)

	// a booking for another showtime does not count
	bookedFlow(sess, 9, session.StepPayment)
	nav, err = svc.Navigate(context.Background(), sess, "/payment/7")
	require.NoError(t, err)
	assert.Equal(t, "/booking/7", nav.Redirect)
}

func TestSuccessRecoversOnlyCompletedBooking(t *testing.T) {
	svc, _ := newService()
	sess := session.New("s1", time.Now())

	bookedFlow(sess, 7, session.StepOTP)
	nav, err := svc.Navigate(context.Background(), sess, "/success/7")
	require.NoError(t, err)
	assert.Nil(t, nav.Recovered)

	sess.Flow.Step = session.StepSuccess
	nav, err = svc.Navigate(context.Background(), sess, "/success/7")
	require.NoError(t, err)
	require.NotNil(t, nav.Recovered)
	assert.Equal(t, session.StepSuccess, nav.Recovered.Step)
}

func TestLeavingFlowDropsUnbookedSelection(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	sess := session.New("s1", time.Now())
	sess.FlowFor(7).SelectedSeats = []string{"A1"}
	require.NoError(t, store.Set(ctx, sess))

	_, err := svc.Navigate(ctx, sess, "/showtimes")
	require.NoError(t, err)
	assert.Nil(t, sess.Flow)

	saved, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, saved.Flow)

	// a created booking survives
	bookedFlow(sess, 7, session.StepPayment)
	_, err = svc.Navigate(ctx, sess, "/")
	require.NoError(t, err)
	assert.NotNil(t, sess.Flow)
}

func TestLeavingFlowKeepsBookingSavedMeanwhile(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	sess := session.New("s1", time.Now())
	sess.FlowFor(7).SelectedSeats = []string{"A1", "A2"}
	require.NoError(t, store.Set(ctx, sess))
	stale, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	// another request created the booking after stale was read
	bookedFlow(sess, 7, session.StepPayment)
	require.NoError(t, store.Set(ctx, sess))

	_, err = svc.Navigate(ctx, stale, "/showtimes")
	require.NoError(t, err)

	saved, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, saved.Flow)
	require.NotNil(t, saved.Flow.Booking)
	assert.Equal(t, int64(42), saved.Flow.Booking.BookingID)
}

func TestAdminRedirects(t *testing.T) {
	svc, _ := newService()
	sess := session.New("s1", time.Now())

	nav, err := svc.Navigate(context.Background(), sess, "/admin")
	require.NoError(t, err)
	assert.Equal(t, "/admin/login", nav.Redirect)
	assert.False(t, nav.AdminLoggedIn)

	sess.Admin = &session.AdminAuth{Token: "tok"}
	nav, err = svc.Navigate(context.Background(), sess, "/admin/login")
	require.NoError(t, err)
	assert.Equal(t, "/admin", nav.Redirect)
	assert.True(t, nav.AdminLoggedIn)
}
