package showtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
)

func TestGroupByMovieDate(t *testing.T) {
	list := []backend.Showtime{
		{ID: 1, MovieTitle: "Dune", ShowDate: "2025-06-01", ShowTime: "21:00", TheaterName: "Hall 1"},
		{ID: 2, MovieTitle: "Alien", ShowDate: "2025-06-01", ShowTime: "18:00", TheaterName: "Hall 2"},
		{ID: 3, MovieTitle: "Dune", ShowDate: "2025-06-02", ShowTime: "12:00"},
		{ID: 4, MovieTitle: "Dune", ShowDate: "2025-06-01", ShowTime: "10:00", TheaterName: "Hall 3"},
	}

	groups := GroupByMovieDate(list)
	require.Len(t, groups, 3)

	assert.Equal(t, "Dune", groups[0].MovieTitle)
	assert.Equal(t, "2025-06-01", groups[0].ShowDate)
	require.Len(t, groups[0].Times, 2)
	// input order, not time order
	assert.Equal(t, int64(1), groups[0].Times[0].ID)
	assert.Equal(t, int64(4), groups[0].Times[1].ID)

	assert.Equal(t, "Alien", groups[1].MovieTitle)
	assert.Equal(t, "2025-06-02", groups[2].ShowDate)
}

func TestGroupByMovieDateEmpty(t *testing.T) {
	groups := GroupByMovieDate(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

type stubLister struct {
	list []backend.Showtime
	err  error
}

func (s stubLister) ListShowtimes(context.Context) ([]backend.Showtime, error) {
	return s.list, s.err
}

func TestListHandler(t *testing.T) {
	h := NewHandler(stubLister{list: []backend.Showtime{{ID: 1, MovieTitle: "Dune", ShowDate: "2025-06-01"}}})

	rec := httptest.NewRecorder()
	h.Routes(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Groups []Group `json:"groups"`
			Total  int     `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.Total)
	require.Len(t, body.Data.Groups, 1)
}

func TestListHandlerUpstreamDown(t *testing.T) {
	h := NewHandler(stubLister{err: &backend.TransportError{Kind: "network", Err: errors.New("connection refused")}})

	rec := httptest.NewRecorder()
	h.Routes(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
