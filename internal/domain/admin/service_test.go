package admin

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-gateway/internal/domain/audit"
	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/imaging"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/storage"
)

type fakeBackend struct {
	Backend // unimplemented methods panic

	mu          sync.Mutex
	calls       map[string]int
	loginResult *backend.LoginResult
	loginErr    error
	bookings    []backend.Booking
	stats       map[string]int
	current     *backend.Booking
	listErr     error
	actionSent  *backend.ActionRequest
	showtimeErr error
	proof       []byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Login(context.Context, string, string) (*backend.LoginResult, error) {
	f.hit("login")
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) Logout(context.Context, string) error {
	f.hit("logout")
	return errors.New("backend down")
}

func (f *fakeBackend) ListBookings(_ context.Context, _, status string) ([]backend.Booking, error) {
	f.hit("list:" + status)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]backend.Booking, len(f.bookings))
	copy(out, f.bookings)
	return out, nil
}

func (f *fakeBackend) BookingStats(context.Context, string) (map[string]int, error) {
	f.hit("stats")
	return f.stats, nil
}

func (f *fakeBackend) Analytics(context.Context, string) (*backend.Analytics, error) {
	f.hit("analytics")
	return &backend.Analytics{TotalBookings: len(f.bookings)}, nil
}

func (f *fakeBackend) GetBooking(context.Context, string, int64) (*backend.Booking, error) {
	f.hit("get")
	b := *f.current
	return &b, nil
}

func (f *fakeBackend) BookingAction(_ context.Context, _ string, _ int64, req backend.ActionRequest) (*backend.Message, error) {
	f.hit("action")
	f.actionSent = &req
	return &backend.Message{Message: "Booking updated"}, nil
}

func (f *fakeBackend) GetShowtime(_ context.Context, id int64) (*backend.ShowtimeDetail, error) {
	f.hit("showtime")
	if f.showtimeErr != nil {
		return nil, f.showtimeErr
	}
	return &backend.ShowtimeDetail{Movie: "Dune", Theater: "Hall 1", ShowDate: "2025-06-01", Showtime: "19:30"}, nil
}

func (f *fakeBackend) PaymentProof(context.Context, string, int64) ([]byte, string, error) {
	f.hit("proof")
	return f.proof, "image/png", nil
}

type recorder struct{ actions []audit.Action }

func (r *recorder) Record(_ context.Context, a audit.Action) error {
	r.actions = append(r.actions, a)
	return nil
}

type notifier struct{ showtimes []int64 }

func (n *notifier) SeatsChanged(_ context.Context, id int64) { n.showtimes = append(n.showtimes, id) }

func loggedIn() *session.Session {
	sess := session.New("sess-1", time.Now())
	sess.Admin = &session.AdminAuth{Token: "tok", Username: "root"}
	return sess
}

func newTestService(api *fakeBackend) (*Service, *session.MemoryStore, *recorder, *notifier) {
	store := session.NewMemoryStore(time.Hour, time.Minute)
	rec, n := &recorder{}, &notifier{}
	return NewService(api, store, rec, n), store, rec, n
}

func TestApplyActionWithoutStatusMakesNoCall(t *testing.T) {
	api := newFakeBackend()
	svc, _, _, _ := newTestService(api)

	_, err := svc.ApplyAction(context.Background(), loggedIn(), 42, ActionRequest{AdminRemarks: "looks fine"}, "", RequestMeta{})

	require.ErrorIs(t, err, ErrStatusRequired)
	var aerr *ActionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "looks fine", aerr.Submitted()["admin_remarks"])
	assert.Zero(t, api.count("get"))
	assert.Zero(t, api.count("action"))
}

func TestApplyActionRejectsInvalidTransition(t *testing.T) {
	api := newFakeBackend()
	api.current = &backend.Booking{ID: 42, ShowtimeID: 7, Status: "confirmed"}
	svc, _, rec, _ := newTestService(api)

	_, err := svc.ApplyAction(context.Background(), loggedIn(), 42, ActionRequest{Status: "pending_payment"}, "", RequestMeta{})

	require.ErrorIs(t, err, booking.ErrInvalidStatusTransition)
	var aerr *ActionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "confirmed", aerr.Submitted()["current_status"])
	assert.Zero(t, api.count("action"))
	assert.Empty(t, rec.actions)
}

func TestApplyActionUnknownStatus(t *testing.T) {
	api := newFakeBackend()
	svc, _, _, _ := newTestService(api)

	_, err := svc.ApplyAction(context.Background(), loggedIn(), 42, ActionRequest{Status: "refunded"}, "", RequestMeta{})
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
	assert.Zero(t, api.count("get"))
}

func TestApplyAction(t *testing.T) {
	api := newFakeBackend()
	api.current = &backend.Booking{ID: 42, ShowtimeID: 7, Status: "pending_approval"}
	api.bookings = []backend.Booking{{ID: 42, ShowtimeID: 7, Status: "approved"}}
	api.stats = map[string]int{"approved": 1}
	svc, _, rec, n := newTestService(api)

	out, err := svc.ApplyAction(context.Background(), loggedIn(), 42,
		ActionRequest{Status: "approved", AdminRemarks: "paid"}, "",
		RequestMeta{IP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, "pending_approval", out.OldStatus)
	assert.Equal(t, "approved", out.NewStatus)
	require.NotNil(t, api.actionSent)
	assert.Equal(t, "paid", api.actionSent.AdminRemarks)

	require.Len(t, rec.actions, 1)
	assert.Equal(t, "root", rec.actions[0].AdminName)
	assert.Equal(t, "10.0.0.1", rec.actions[0].IPAddress)
	assert.Equal(t, []int64{7}, n.showtimes)

	require.NotNil(t, out.Dashboard)
	require.Len(t, out.Dashboard.Bookings, 1)
	assert.Equal(t, "Dune", out.Dashboard.Bookings[0].MovieTitle)
}

func TestFilterOptions(t *testing.T) {
	opts := FilterOptions(map[string]int{"approved": 1, "pending_payment": 1})
	require.Len(t, opts, 3)
	assert.Equal(t, "all", opts[0].Value)
	assert.Equal(t, "All Bookings (2)", opts[0].Label)
	assert.Equal(t, "pending_payment", opts[1].Value)
	assert.Equal(t, "PENDING PAYMENT (1)", opts[1].Label)
	assert.Equal(t, "approved", opts[2].Value)

	// unknown keys count towards "all" but are not offered as filters
	opts = FilterOptions(map[string]int{"zeta": 2, "alpha": 1, "cancelled": 3})
	require.Len(t, opts, 2)
	assert.Equal(t, "cancelled", opts[1].Value)
	assert.Equal(t, "All Bookings (6)", opts[0].Label)
	for _, o := range opts[1:] {
		_, err := booking.ParseStatus(o.Value)
		assert.NoError(t, err, o.Value)
	}

	opts = FilterOptions(nil)
	require.Len(t, opts, 1)
	assert.Equal(t, "All Bookings (0)", opts[0].Label)
}

func TestDashboard(t *testing.T) {
	proof := "uploads/42.png"
	api := newFakeBackend()
	api.bookings = []backend.Booking{
		{ID: 42, ShowtimeID: 7, Status: "pending_approval", PaymentProof: &proof},
		{ID: 43, ShowtimeID: 7, Status: "confirmed"},
	}
	api.stats = map[string]int{"pending_approval": 1, "confirmed": 1}
	svc, _, _, _ := newTestService(api)

	dash, err := svc.Dashboard(context.Background(), loggedIn(), "")
	require.NoError(t, err)

	assert.Equal(t, "all", dash.Status)
	assert.Equal(t, 1, api.count("list:"))
	// one lookup per distinct showtime
	assert.Equal(t, 1, api.count("showtime"))
	assert.Equal(t, "All Bookings (2)", dash.Filters[0].Label)

	first := dash.Bookings[0]
	assert.True(t, first.HasProof)
	assert.Equal(t, "PENDING APPROVAL", first.StatusLabel)
	assert.Equal(t, []booking.Status{booking.StatusApproved, booking.StatusAdminRejected, booking.StatusCancelled}, first.AllowedActions)
	assert.False(t, dash.Bookings[1].HasProof)
	assert.Empty(t, dash.Bookings[1].AllowedActions)

	_, err = svc.Dashboard(context.Background(), loggedIn(), "approved")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("list:approved"))

	_, err = svc.Dashboard(context.Background(), loggedIn(), "bogus")
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
}

func TestDashboardKeepsBookingsWhenShowtimeLookupFails(t *testing.T) {
	api := newFakeBackend()
	api.bookings = []backend.Booking{{ID: 42, ShowtimeID: 7, Status: "approved"}}
	api.showtimeErr = &backend.APIError{Status: 404, Detail: "Showtime not found"}
	svc, _, _, _ := newTestService(api)

	dash, err := svc.Dashboard(context.Background(), loggedIn(), "all")
	require.NoError(t, err)
	require.Len(t, dash.Bookings, 1)
	assert.Empty(t, dash.Bookings[0].MovieTitle)
}

func TestRejectedTokenIsPurged(t *testing.T) {
	api := newFakeBackend()
	api.listErr = &backend.APIError{Status: 401, Detail: "Could not validate credentials"}
	svc, store, _, _ := newTestService(api)

	sess := loggedIn()
	require.NoError(t, store.Set(context.Background(), sess))

	_, err := svc.Dashboard(context.Background(), sess, "")
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, sess.Admin)

	saved, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.Admin)

	// no silent retry
	assert.Equal(t, 1, api.count("list:"))
}

func TestPurgeKeepsLaterSessionWrites(t *testing.T) {
	api := newFakeBackend()
	api.listErr = &backend.APIError{Status: 401, Detail: "Could not validate credentials"}
	svc, store, _, _ := newTestService(api)
	ctx := context.Background()

	stale := loggedIn()
	require.NoError(t, store.Set(ctx, stale))

	// the same browser booked a seat after stale was read
	current := loggedIn()
	current.FlowFor(7).Booking = &session.BookingRef{BookingID: 42}
	require.NoError(t, store.Set(ctx, current))

	_, err := svc.Dashboard(ctx, stale, "")
	require.ErrorIs(t, err, ErrSessionExpired)

	saved, err := store.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.Admin)
	require.NotNil(t, saved.Flow)
	assert.Equal(t, int64(42), saved.Flow.Booking.BookingID)

	// a fresh login stored in the meantime is not thrown away
	relogged := loggedIn()
	relogged.Admin.Token = "fresh"
	require.NoError(t, store.Set(ctx, relogged))

	_, err = svc.Dashboard(ctx, loggedIn(), "")
	require.ErrorIs(t, err, ErrSessionExpired)

	saved, err = store.Get(ctx, stale.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Admin)
	assert.Equal(t, "fresh", saved.Admin.Token)
}

func TestNotLoggedIn(t *testing.T) {
	api := newFakeBackend()
	svc, _, _, _ := newTestService(api)

	_, err := svc.Dashboard(context.Background(), session.New("anon", time.Now()), "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, api.count("stats"))
}

func TestLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "root",
		ExpiresAt: gojwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	api := newFakeBackend()
	api.loginResult = &backend.LoginResult{AccessToken: token}
	svc, store, _, _ := newTestService(api)
	sess := session.New("s1", time.Now())

	out, err := svc.Login(context.Background(), sess, LoginRequest{Username: "root", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "root", out.Username)
	require.NotNil(t, out.ExpiresAt)
	assert.True(t, exp.Equal(*out.ExpiresAt))

	saved, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, saved.Admin)
	assert.Equal(t, token, saved.Admin.Token)

	// logout forgets the token even when the backend call fails
	require.NoError(t, svc.Logout(context.Background(), sess))
	assert.Nil(t, sess.Admin)
	assert.Equal(t, 1, api.count("logout"))
}

func TestLoginRejected(t *testing.T) {
	api := newFakeBackend()
	api.loginErr = &backend.APIError{Status: 401, Detail: "Incorrect username or password"}
	svc, _, _, _ := newTestService(api)

	_, err := svc.Login(context.Background(), session.New("s1", time.Now()), LoginRequest{Username: "root", Password: "bad"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), session.New("s1", time.Now()), LoginRequest{})
	var verr *booking.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, api.count("login"))
}

func TestExpiredTokenIsPurgedBeforeCall(t *testing.T) {
	api := newFakeBackend()
	svc, _, _, _ := newTestService(api)

	sess := loggedIn()
	sess.Admin.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := svc.ResendEmail(context.Background(), sess, 42)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, sess.Admin)
}

type fakeCatalog struct {
	Catalog
	created int
}

func (f *fakeCatalog) CreateTheater(context.Context, string, backend.Theater) (*backend.Created, error) {
	f.created++
	return &backend.Created{ID: 1}, nil
}

func TestCreateTheaterValidatesLayout(t *testing.T) {
	svc, _, _, _ := newTestService(newFakeBackend())
	cat := &fakeCatalog{}
	catalog := NewCatalogService(svc, cat)
	sess := loggedIn()

	tests := []struct {
		name  string
		req   TheaterRequest
		field string
	}{
		{"no columns", TheaterRequest{Name: "Hall", Rows: 5}, "left_cols"},
		{"too many rows", TheaterRequest{Name: "Hall", Rows: 27, LeftCols: 4}, "rows"},
		{"seat outside layout", TheaterRequest{Name: "Hall", Rows: 2, LeftCols: 2, RightCols: 2, NonSelectableSeats: []string{"C1"}}, "non_selectable_seats[0]"},
		{"malformed seat", TheaterRequest{Name: "Hall", Rows: 2, LeftCols: 2, NonSelectableSeats: []string{"1A"}}, "non_selectable_seats[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.CreateTheater(context.Background(), sess, tt.req)
			var verr *booking.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Zero(t, cat.created)

	_, err := catalog.CreateTheater(context.Background(), sess, TheaterRequest{Name: "Hall", Rows: 11, LeftCols: 8, RightCols: 6, NonSelectableSeats: []string{"K14"}})
	require.NoError(t, err)
	assert.Equal(t, 1, cat.created)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestThumbnailIsCached(t *testing.T) {
	api := newFakeBackend()
	api.proof = pngBytes(t, 1200, 1600)
	svc, _, _, _ := newTestService(api)

	previews, err := storage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)
	proofs := NewProofService(svc, previews, imaging.NewProcessor(imaging.DefaultConfig()))
	sess := loggedIn()

	first, err := proofs.Thumbnail(context.Background(), sess, 42)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", first.ContentType)
	assert.False(t, first.Cached)

	second, err := proofs.Thumbnail(context.Background(), sess, 42)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, api.count("proof"))
}

func TestThumbnailOfNonImageReturnsOriginal(t *testing.T) {
	api := newFakeBackend()
	api.proof = []byte("%PDF-1.4 not an image")
	svc, _, _, _ := newTestService(api)
	proofs := NewProofService(svc, nil, imaging.NewProcessor(imaging.DefaultConfig()))

	got, err := proofs.Thumbnail(context.Background(), loggedIn(), 42)
	require.NoError(t, err)
	assert.Equal(t, api.proof, got.Data)
}
