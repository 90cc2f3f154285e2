package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp decoder for proofs uploaded from phones
)

// Preview is a downscaled proof image ready for the admin viewer.
type Preview struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Config for preview generation
type Config struct {
	MaxWidth  int // bounding box width (default 480)
	MaxHeight int // bounding box height (default 800)
	Quality   int // JPEG quality 1-100 (default 80)
}

// DefaultConfig returns default preview config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  480,
		MaxHeight: 800,
		Quality:   80,
	}
}

// Processor renders proof previews
type Processor struct {
	config Config
}

// NewProcessor creates a preview processor
func NewProcessor(config Config) *Processor {
	if config.MaxWidth <= 0 || config.MaxHeight <= 0 {
		d := DefaultConfig()
		config.MaxWidth, config.MaxHeight = d.MaxWidth, d.MaxHeight
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultConfig().Quality
	}
	return &Processor{config: config}
}

// Preview decodes an image (honouring EXIF orientation), fits it inside the
// configured box without cropping, and re-encodes it as JPEG. Images that
// already fit are only re-encoded.
func (p *Processor) Preview(reader io.Reader) (*Preview, error) {
	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var out image.Image = img
	b := img.Bounds()
	if b.Dx() > p.config.MaxWidth || b.Dy() > p.config.MaxHeight {
		out = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Preview{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
	}, nil
}
