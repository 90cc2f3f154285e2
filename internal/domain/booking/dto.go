package booking

import (
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
)

// SubmitRequest is the customer-detail form.
type SubmitRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,mailshape"`
	CustomerPhone string `json:"customer_phone" validate:"required,dialphone"`
}

// OTPRequest is the one-time-code entry.
type OTPRequest struct {
	OTP string `json:"otp" validate:"required,max=12"`
}

// SeatMapView is everything the seat-selection page renders.
type SeatMapView struct {
	ShowtimeID  int64        `json:"showtime_id"`
	Movie       string       `json:"movie"`
	MoviePoster string       `json:"movie_poster,omitempty"`
	Theater     string       `json:"theater"`
	ShowDate    string       `json:"show_date"`
	Showtime    string       `json:"showtime"`
	Price       float64      `json:"price"`
	Layout      Layout       `json:"layout"`
	Seats       SeatMap      `json:"seats"`
	Selected    []string     `json:"selected_seats"`
	Total       float64      `json:"total"`
	Step        session.Step `json:"step"`
}

// SubmitResult is returned once the backend accepted the booking.
type SubmitResult struct {
	BookingID      int64                   `json:"booking_id"`
	TotalAmount    float64                 `json:"total_amount"`
	Status         string                  `json:"status"`
	Message        string                  `json:"message,omitempty"`
	PaymentDetails *backend.PaymentDetails `json:"payment_details,omitempty"`
	Next           string                  `json:"next"`
}

// UploadOutcome tells the client whether an OTP step follows.
type UploadOutcome struct {
	Message     string       `json:"message"`
	RequiresOTP bool         `json:"requires_otp"`
	Step        session.Step `json:"step"`
	Next        string       `json:"next"`
}

// Summary is the success page.
type Summary struct {
	BookingID   int64             `json:"booking_id"`
	ShowtimeID  int64             `json:"showtime_id"`
	Movie       string            `json:"movie,omitempty"`
	Theater     string            `json:"theater,omitempty"`
	ShowDate    string            `json:"show_date,omitempty"`
	Showtime    string            `json:"showtime,omitempty"`
	Seats       []string          `json:"seats"`
	TotalAmount float64           `json:"total_amount"`
	Customer    *session.Customer `json:"customer,omitempty"`
	Step        session.Step      `json:"step"`
	TicketURL   string            `json:"ticket_url,omitempty"`
}
