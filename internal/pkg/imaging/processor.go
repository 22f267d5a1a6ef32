package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ProcessedPoster contains the processed poster variants
type ProcessedPoster struct {
	Full        []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for poster processing
type Config struct {
	MaxWidth    int // Max width for the full poster (default 1280)
	MaxHeight   int // Max height for the full poster (default 720)
	ThumbWidth  int // Thumbnail width (default 320)
	ThumbHeight int // Thumbnail height (default 180)
	Quality     int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:    1280,
		MaxHeight:   720,
		ThumbWidth:  320,
		ThumbHeight: 180,
		Quality:     85,
	}
}

// Processor handles course and workshop poster processing
type Processor struct {
	config Config
}

// NewProcessor creates poster processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes a poster image, fits it into the configured bounds and
// produces a listing thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedPoster, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read poster: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode poster: %w", err)
	}

	result := &ProcessedPoster{
		ContentType: mimeFromFormat(format),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}

	resized := img
	if result.Width > p.config.MaxWidth || result.Height > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
		result.Width = resized.Bounds().Dx()
		result.Height = resized.Bounds().Dy()
	}

	full, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}
	result.Full = full

	thumb := imaging.Fill(resized, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbBytes, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	result.Thumbnail = thumbBytes

	return result, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func mimeFromFormat(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
