package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	entries []*Entry
	filter  Filter
}

func (m *memRepo) EnsureSchema(context.Context) error { return nil }

func (m *memRepo) Create(_ context.Context, e *Entry) error {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]*Entry, int, error) {
	m.filter = f
	return m.entries, len(m.entries), nil
}

func TestRecordWithoutDatabaseIsNoop(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Record(context.Background(), Action{BookingID: 1}))

	_, _, err := svc.List(context.Background(), Filter{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestRecord(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	require.NoError(t, svc.Record(context.Background(), Action{
		BookingID: 42, ShowtimeID: 7,
		OldStatus: "pending_approval", NewStatus: "approved",
		AdminName: "root",
	}))

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, int64(42), e.BookingID)
	assert.Equal(t, "approved", e.NewStatus)
	assert.False(t, e.Remarks.Valid)
	assert.True(t, e.AdminName.Valid)
	assert.Equal(t, fixed, e.CreatedAt)
}

func TestListClampsPaging(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), Filter{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.filter.Limit)
	assert.Equal(t, 0, repo.filter.Offset)
}

func TestListHandler(t *testing.T) {
	h := NewHandler(NewService(&memRepo{}))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/?booking_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/?booking_id=42&limit=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHandler(NewService(nil)).List(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
