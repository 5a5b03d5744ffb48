// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package fonts loads OpenType fonts and measures text for layout.
//
// Measurements are deterministic for identical font bytes and parameters.
// Parsed font handles are cached for the process lifetime as a performance
// optimization; the cache is never required for correctness. Font faces are
// created per call because a font.Face is not safe for concurrent use,
// while the parsed font behind it is.
//
// An empty font file selects the embedded Go Regular face, so built-in card
// types render without any font assets on disk. A non-empty file that is
// missing or corrupt is a LoadError; text cannot be laid out without
// metrics, so the caller must fail that render.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/cardsmith/cardsmith/internal/cache"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
)

// DefaultSize is the point size used when a font spec leaves size unset.
const DefaultSize = 100.0

const renderDPI = 72.0

// LoadError indicates a font file could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load font %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Measurement is the pixel bounding size of a measured string.
type Measurement struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Manager loads fonts from a directory and caches parsed handles.
type Manager struct {
	dir      string
	fallback *opentype.Font
	parsed   *cache.LRU[string, *opentype.Font]
}

// NewManager creates a font manager rooted at dir. Relative font files
// resolve against dir; absolute paths are used as-is.
func NewManager(dir string, capacity int) (*Manager, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	return &Manager{
		dir:      dir,
		fallback: fallback,
		parsed:   cache.NewLRU[string, *opentype.Font](capacity, 0),
	}, nil
}

// Face returns a font face for the given file and point size. An empty
// file selects the embedded face. A non-positive size uses DefaultSize.
func (m *Manager) Face(file string, size float64) (font.Face, error) {
	fnt, err := m.load(file)
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		size = DefaultSize
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     renderDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &LoadError{Path: file, Err: err}
	}
	return face, nil
}

// FaceFor returns a face for a resolved font spec.
func (m *Manager) FaceFor(spec models.FontSpec) (font.Face, error) {
	return m.Face(spec.File, spec.Size)
}

// Measure returns the pixel width and height of text drawn with spec.
// Kerning adds spacing between every glyph pair; interword spacing adds
// to each space gap on top of the space glyph advance.
func (m *Manager) Measure(text string, spec models.FontSpec) (Measurement, error) {
	face, err := m.FaceFor(spec)
	if err != nil {
		return Measurement{}, err
	}
	defer face.Close()

	width := font.MeasureString(face, text).Ceil()
	if runes := utf8.RuneCountInString(text); runes > 1 && spec.Kerning != 0 {
		width += int(spec.Kerning * float64(runes-1))
	}
	if spec.InterwordSpacing != 0 {
		width += spec.InterwordSpacing * strings.Count(text, " ")
	}

	fm := face.Metrics()
	height := (fm.Ascent + fm.Descent).Ceil()

	return Measurement{Width: width, Height: height}, nil
}

// LineHeight returns the vertical advance for one text line drawn with
// spec, including the spec's interline spacing.
func (m *Manager) LineHeight(spec models.FontSpec) (int, error) {
	face, err := m.FaceFor(spec)
	if err != nil {
		return 0, err
	}
	defer face.Close()

	return face.Metrics().Height.Ceil() + spec.InterlineSpacing, nil
}

// CacheStats reports parsed-font cache effectiveness.
func (m *Manager) CacheStats() cache.Stats {
	return m.parsed.GetStats()
}

// load returns the parsed font for file, consulting the cache first.
func (m *Manager) load(file string) (*opentype.Font, error) {
	if file == "" {
		return m.fallback, nil
	}

	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, path)
	}

	if fnt, ok := m.parsed.Get(path); ok {
		metrics.RecordFontCacheHit()
		return fnt, nil
	}
	metrics.RecordFontCacheMiss()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	m.parsed.Add(path, fnt)
	return fnt, nil
}
