package backend

// Wire types exchanged with the booking backend. Field names follow the
// backend's JSON; domain packages convert these into their own types.

// Showtime is one row of the public showtime listing.
type Showtime struct {
	ID          int64   `json:"id"`
	MovieID     int64   `json:"movie_id,omitempty"`
	TheaterID   int64   `json:"theater_id,omitempty"`
	MovieTitle  string  `json:"movie_title"`
	PosterURL   string  `json:"poster_url"`
	TheaterName string  `json:"theater_name"`
	Address     string  `json:"address"`
	ShowDate    string  `json:"show_date"`
	ShowTime    string  `json:"show_time"`
	Price       float64 `json:"price"`
}

// ShowtimeDetail is the seat-status snapshot of one showtime.
// Any of the seat arrays may be missing from the payload.
type ShowtimeDetail struct {
	Rows                 int      `json:"rows"`
	LeftCols             int      `json:"left_cols"`
	RightCols            int      `json:"right_cols"`
	Movie                string   `json:"movie"`
	MoviePoster          string   `json:"movie_poster"`
	Theater              string   `json:"theater"`
	ShowDate             string   `json:"show_date"`
	Showtime             string   `json:"showtime"`
	Price                float64  `json:"price"`
	PendingPaymentSeats  []string `json:"pending_payment_seats"`
	PendingApprovalSeats []string `json:"pending_approval_seats"`
	ApprovedSeats        []string `json:"approved_seats"`
	ConfirmedSeats       []string `json:"confirmed_seats"`
	ReservedSeats        []string `json:"reserved_seats"`
	NonSelectable        []string `json:"non_selectable"`
}

// BookRequest creates a booking.
type BookRequest struct {
	ShowtimeID    int64    `json:"showtime_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	SelectedSeats []string `json:"selected_seats"`
}

// PaymentDetails tells the customer where to transfer the money.
type PaymentDetails struct {
	UPIID         string `json:"upi_id,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
}

// BookResponse is returned by booking creation.
type BookResponse struct {
	BookingID      int64           `json:"booking_id"`
	TotalAmount    float64         `json:"total_amount"`
	Status         string          `json:"status"`
	Message        string          `json:"message,omitempty"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
}

// UploadResult is returned by the payment-proof upload.
type UploadResult struct {
	Message     string `json:"message"`
	RequiresOTP bool   `json:"requires_otp"`
}

// OTPRequest completes the payment step.
type OTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Message is the generic {"message": ...} acknowledgement.
type Message struct {
	Message string `json:"message"`
}

// Booking as listed for admins. The listing already joins showtime
// columns for some statuses; the rest are filled in by the dashboard.
type Booking struct {
	ID            int64    `json:"id"`
	ShowtimeID    int64    `json:"showtime_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	Seats         []string `json:"seats"`
	TotalAmount   float64  `json:"total_amount"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
	PaymentProof  *string  `json:"payment_proof"`
	AdminRemarks  *string  `json:"admin_remarks"`
	MovieTitle    string   `json:"movie_title,omitempty"`
	TheaterName   string   `json:"theater_name,omitempty"`
	ShowDate      string   `json:"show_date,omitempty"`
	ShowTime      string   `json:"show_time,omitempty"`
}

// ActionRequest is an admin status transition.
type ActionRequest struct {
	Status       string `json:"status"`
	AdminRemarks string `json:"admin_remarks"`
}

// Analytics is the dashboard summary.
type Analytics struct {
	TotalBookings     int     `json:"total_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	PendingBookings   int     `json:"pending_bookings"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// AdminProfile is returned by the liveness check.
type AdminProfile struct {
	Username string `json:"username"`
	Exp      int64  `json:"exp,omitempty"`
}

// Movie is a catalog movie.
type Movie struct {
	ID              int64  `json:"id,omitempty"`
	Title           string `json:"title"`
	PosterURL       string `json:"poster_url"`
	DurationMinutes int    `json:"duration_minutes"`
	Genre           string `json:"genre"`
	Rating          string `json:"rating"`
	Description     string `json:"description,omitempty"`
}

// Theater is a catalog theater with its seat layout.
type Theater struct {
	ID                 int64    `json:"id,omitempty"`
	Name               string   `json:"name"`
	Address            string   `json:"address"`
	Rows               int      `json:"rows"`
	LeftCols           int      `json:"left_cols"`
	RightCols          int      `json:"right_cols"`
	NonSelectableSeats []string `json:"non_selectable_seats"`
}

// ShowtimeInput creates or updates a showtime.
type ShowtimeInput struct {
	MovieID   int64   `json:"movie_id"`
	TheaterID int64   `json:"theater_id"`
	ShowDate  string  `json:"show_date"`
	ShowTime  string  `json:"show_time"`
	Price     float64 `json:"price"`
}

// Created is the acknowledgement of a create call.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}

// Settings is the admin notification preferences singleton.
type Settings struct {
	AdminEmail          string `json:"admin_email"`
	AdminName           string `json:"admin_name"`
	NotificationEnabled bool   `json:"notification_enabled"`
}

// TheaterConfig is the single "theater configuration" record.
type TheaterConfig struct {
	MovieName   string  `json:"movie_name"`
	MoviePoster string  `json:"movie_poster"`
	TheaterName string  `json:"theater_name"`
	ShowDate    string  `json:"show_date"`
	Showtime    string  `json:"showtime"`
	Price       float64 `json:"price"`
}
