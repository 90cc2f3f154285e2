package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
)

// ListShowtimes returns the public showtime listing.
func (c *Client) ListShowtimes(ctx context.Context) ([]Showtime, error) {
	var out []Showtime
	if err := c.do(ctx, http.MethodGet, "/showtimes", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetShowtime returns the seat-status snapshot for a showtime.
func (c *Client) GetShowtime(ctx context.Context, id int64) (*ShowtimeDetail, error) {
	var out ShowtimeDetail
	if err := c.do(ctx, http.MethodGet, "/api/showtime/"+strconv.FormatInt(id, 10), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking submits a booking.
func (c *Client) CreateBooking(ctx context.Context, req BookRequest) (*BookResponse, error) {
	var out BookResponse
	if err := c.do(ctx, http.MethodPost, "/api/book", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPaymentProof attaches a proof image to a booking as multipart field "file".
func (c *Client) UploadPaymentProof(ctx context.Context, bookingID int64, filename, contentType string, data []byte) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, &TransportError{Kind: "request", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &TransportError{Kind: "request", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Kind: "request", Err: err}
	}

	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        "/api/upload-payment/" + strconv.FormatInt(bookingID, 10),
		body:        &buf,
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend decode upload: %w", err)
	}
	return &out, nil
}

// VerifyPaymentOTP completes the payment step.
func (c *Client) VerifyPaymentOTP(ctx context.Context, email, otp string) (*Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodPost, "/api/verify-payment-otp", "", OTPRequest{Email: email, OTP: otp}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBooking returns one booking.
func (c *Client) GetBooking(ctx context.Context, token string, id int64) (*Booking, error) {
	var out Booking
	if err := c.do(ctx, http.MethodGet, "/api/booking/"+strconv.FormatInt(id, 10), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBookings lists bookings, optionally filtered by status.
func (c *Client) ListBookings(ctx context.Context, token, status string) ([]Booking, error) {
	path := "/api/bookings"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []Booking
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookingStats returns the per-status booking counts.
func (c *Client) BookingStats(ctx context.Context, token string) (map[string]int, error) {
	out := map[string]int{}
	if err := c.do(ctx, http.MethodGet, "/api/bookings/stats", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analytics returns the dashboard summary.
func (c *Client) Analytics(ctx context.Context, token string) (*Analytics, error) {
	var out Analytics
	if err := c.do(ctx, http.MethodGet, "/api/analytics", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BookingAction applies an admin status transition.
func (c *Client) BookingAction(ctx context.Context, token string, id int64, req ActionRequest) (*Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodPut, "/api/booking/"+strconv.FormatInt(id, 10)+"/action", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendEmail asks the backend to resend the confirmation email.
func (c *Client) ResendEmail(ctx context.Context, token string, id int64) (*Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodPost, "/api/booking/"+strconv.FormatInt(id, 10)+"/resend-email", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentProof downloads the proof image of a booking.
func (c *Client) PaymentProof(ctx context.Context, token string, id int64) ([]byte, string, error) {
	resp, err := c.send(ctx, request{
		method: http.MethodGet,
		path:   "/api/payment-proof/" + strconv.FormatInt(id, 10),
		token:  token,
	})
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxProofBytes))
	if err != nil {
		return nil, "", classifyRequestError(ctx, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
