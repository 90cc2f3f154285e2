// Package ticket renders the scannable reference shown on the success page.
package ticket

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the QR edge length in pixels.
const DefaultSize = 256

// Reference is what the QR code encodes.
type Reference struct {
	BookingID  int64
	ShowtimeID int64
	Seats      []string
}

// String is the payload format scanned at the door, e.g. "CINEBOOK:42:7:A1,A2".
func (r Reference) String() string {
	return fmt.Sprintf("CINEBOOK:%d:%d:%s", r.BookingID, r.ShowtimeID, strings.Join(r.Seats, ","))
}

// QRCode returns the reference as a PNG image.
func QRCode(ref Reference, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	qr, err := qrcode.New(ref.String(), qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
