package surface

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/theirongolddev/spendview/internal/chart"
)

// Format is an image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("surface: unknown image format %q (want svg or png)", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Default image size in pixels.
const (
	DefaultImageWidth  = 800
	DefaultImageHeight = 480
)

// Image renders charts to SVG or PNG. With a directory set, each draw writes
// {dir}/{id}.{format}; without one the bytes only live in memory.
type Image struct {
	id     string
	format Format
	dir    string
	width  int
	height int
}

// ImageOption configures an Image.
type ImageOption func(*Image)

// WithDir writes every drawn chart to dir.
func WithDir(dir string) ImageOption {
	return func(s *Image) { s.dir = dir }
}

// WithSize sets the image size in pixels. Non-positive values keep the default.
func WithSize(width, height int) ImageOption {
	return func(s *Image) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// NewImage returns an image surface.
func NewImage(id string, format Format, opts ...ImageOption) *Image {
	s := &Image{
		id:     id,
		format: format,
		width:  DefaultImageWidth,
		height: DefaultImageHeight,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Image) ID() string { return s.id }

// Format returns the encoding used by Draw.
func (s *Image) Format() Format { return s.format }

// Path returns where a draw is written, or "" for in-memory surfaces.
func (s *Image) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, s.id+"."+string(s.format))
}

// Draw renders cfg and, for file-backed surfaces, writes it out.
func (s *Image) Draw(cfg chart.Config) (Instance, error) {
	data, err := renderImage(cfg, s.format, s.width, s.height)
	if err != nil {
		return nil, err
	}

	c := &ImageChart{cfg: cfg, format: s.format, data: data}
	if path := s.Path(); path != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("surface: create %s: %w", s.dir, err)
		}
		if err := writeFileAtomic(path, data); err != nil {
			return nil, err
		}
		c.path = path
	}
	return c, nil
}

// writeFileAtomic replaces path so readers never see a half-written image.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("surface: write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("surface: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("surface: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("surface: write %s: %w", path, err)
	}
	return nil
}

// ImageChart is one rendered image.
type ImageChart struct {
	cfg    chart.Config
	format Format
	path   string

	mu   sync.RWMutex
	data []byte
}

func (c *ImageChart) Config() chart.Config { return c.cfg }

// Bytes returns a copy of the encoded image, or nil once destroyed.
func (c *ImageChart) Bytes() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return nil
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

// ContentType returns the image MIME type.
func (c *ImageChart) ContentType() string { return c.format.ContentType() }

// Path returns the written file, or "" for in-memory charts.
func (c *ImageChart) Path() string { return c.path }

// Destroy drops the bytes and removes the file if one was written.
func (c *ImageChart) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return nil
	}
	c.data = nil
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("surface: remove %s: %w", c.path, err)
	}
	return nil
}
