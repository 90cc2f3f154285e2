// Package navigation maps browser paths onto views and recovers the booking
// in progress after a reload.
package navigation

import (
	"regexp"
	"strconv"
	"strings"
)

// View is the top-level page a path renders.
type View string

const (
	ViewShowtimes View = "showtimes"
	ViewBooking   View = "booking"
	ViewAdmin     View = "admin"
)

// Stage is the booking-flow page named by the path.
type Stage string

const (
	StageBooking Stage = "booking"
	StagePayment Stage = "payment"
	StageSuccess Stage = "success"
)

// Route is a resolved path. ShowtimeID is zero when the path names none.
type Route struct {
	Path       string `json:"path"`
	View       View   `json:"view"`
	Stage      Stage  `json:"stage,omitempty"`
	ShowtimeID int64  `json:"showtime_id,omitempty"`
}

var flowPath = regexp.MustCompile(`^/(booking|payment|success)/(\d+)`)

// Resolve maps a path to its view. Unknown paths fall back to the showtime list.
func Resolve(path string) Route {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	rt := Route{Path: path, View: ViewShowtimes}

	switch {
	case path == "/admin" || path == "/admin/login":
		rt.View = ViewAdmin
	case path == "/" || path == "/showtimes":
	case strings.HasPrefix(path, "/booking"):
		rt.View, rt.Stage = ViewBooking, StageBooking
	case strings.HasPrefix(path, "/payment"):
		rt.View, rt.Stage = ViewBooking, StagePayment
	case strings.HasPrefix(path, "/success"):
		rt.View, rt.Stage = ViewBooking, StageSuccess
	}

	if m := flowPath.FindStringSubmatch(path); m != nil {
		if id, err := strconv.ParseInt(m[2], 10, 64); err == nil && id > 0 {
			rt.ShowtimeID = id
		}
	}
	return rt
}

// BookingPath is the seat selection page of a showtime.
func BookingPath(showtimeID int64) string {
	return "/booking/" + strconv.FormatInt(showtimeID, 10)
}
