package ticket

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceString(t *testing.T) {
	ref := Reference{BookingID: 42, ShowtimeID: 7, Seats: []string{"A1", "A2"}}
	assert.Equal(t, "CINEBOOK:42:7:A1,A2", ref.String())
}

func TestQRCodeIsPNG(t *testing.T) {
	data, err := QRCode(Reference{BookingID: 42, ShowtimeID: 7, Seats: []string{"A1"}}, 128)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}
