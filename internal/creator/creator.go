// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package creator orchestrates one card from request to file: registry
// lookup, settings resolution, title splitting, plan composition, and
// rasterization. Batches fan out over a bounded worker pool with per-card
// failure isolation.
package creator

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cardsmith/cardsmith/internal/cardtypes"
	"github.com/cardsmith/cardsmith/internal/extras"
	"github.com/cardsmith/cardsmith/internal/fonts"
	"github.com/cardsmith/cardsmith/internal/layout"
	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
	"github.com/cardsmith/cardsmith/internal/plan"
	"github.com/cardsmith/cardsmith/internal/registry"
	"github.com/cardsmith/cardsmith/internal/render"
	"github.com/cardsmith/cardsmith/internal/validation"
)

// Gaussian sigma applied when a request asks for the blurred style.
const blurSigma = 30.0

// ProgressSink receives render progress events. The websocket hub
// implements it; a nil sink disables broadcasting.
type ProgressSink interface {
	CardRendered(report models.CardReport)
	BatchStarted(batchID string, total int)
	BatchFinished(report models.BatchReport)
}

// Config holds the creator's operational settings.
type Config struct {
	// OutputDir receives cards whose request omits an output path.
	OutputDir string

	// Canvas dimensions. Default: 3200x1800.
	Width  int
	Height int

	// JPEGQuality for encoded output. Default: render.DefaultJPEGQuality.
	JPEGQuality int

	// Workers bounds batch concurrency. Default: 4.
	Workers int

	// CardTimeout bounds a single card render inside a batch.
	// Default: 2m.
	CardTimeout time.Duration

	// Progress receives render events; may be nil.
	Progress ProgressSink
}

// Creator builds render plans and rasterizes cards.
type Creator struct {
	registry *registry.Registry
	fonts    *fonts.Manager
	renderer *render.Renderer

	outputDir   string
	width       int
	height      int
	workers     int
	cardTimeout time.Duration
	progress    ProgressSink
}

// New returns a creator rendering through the given registry and font
// manager.
func New(reg *registry.Registry, fm *fonts.Manager, cfg Config) *Creator {
	if cfg.Width <= 0 {
		cfg.Width = 3200
	}
	if cfg.Height <= 0 {
		cfg.Height = 1800
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.CardTimeout <= 0 {
		cfg.CardTimeout = 2 * time.Minute
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "cards"
	}

	return &Creator{
		registry:    reg,
		fonts:       fm,
		renderer:    render.NewRenderer(fm, cfg.JPEGQuality),
		outputDir:   cfg.OutputDir,
		width:       cfg.Width,
		height:      cfg.Height,
		workers:     cfg.Workers,
		cardTimeout: cfg.CardTimeout,
		progress:    cfg.Progress,
	}
}

// Plan builds the render plan for a request without touching the canvas.
// The returned plan is the exact operation list Render would execute.
func (c *Creator) Plan(ctx context.Context, req *models.CardRequest) (*plan.RenderPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	p, _, err := c.buildPlan(req)
	if err != nil {
		return nil, err
	}
	metrics.RecordPlan(req.CardType)
	return p, nil
}

// Render renders one card and reports the outcome. Failures are captured
// in the report rather than returned; callers inspect ErrorKind.
func (c *Creator) Render(ctx context.Context, req *models.CardRequest) *models.CardReport {
	start := time.Now()
	report := &models.CardReport{
		RequestID: uuid.New().String(),
		CardType:  req.CardType,
		Title:     req.Title,
	}

	err := c.render(ctx, req, report)
	elapsed := time.Since(start)
	report.DurationMS = elapsed.Milliseconds()

	if err != nil {
		kind := ClassifyError(err)
		report.ErrorKind = kind
		report.Error = err.Error()
		metrics.RecordRenderFailure(req.CardType, string(kind), elapsed)
		logging.Error().
			Err(err).
			Str("request_id", report.RequestID).
			Str("card_type", req.CardType).
			Str("kind", string(kind)).
			Msg("Card render failed")
	} else {
		report.Success = true
		metrics.RecordRenderSuccess(req.CardType, elapsed)
		logging.Debug().
			Str("request_id", report.RequestID).
			Str("card_type", req.CardType).
			Str("output", report.OutputPath).
			Dur("elapsed", elapsed).
			Msg("Card rendered")
	}

	if c.progress != nil {
		c.progress.CardRendered(*report)
	}
	return report
}

func (c *Creator) render(ctx context.Context, req *models.CardRequest, report *models.CardReport) error {
	if verr := validation.ValidateStruct(req); verr != nil {
		return verr
	}
	if req.SourceImage == "" {
		return &MissingSourceImageError{}
	}
	if _, err := os.Stat(req.SourceImage); err != nil {
		return &MissingSourceImageError{Path: req.SourceImage}
	}

	p, _, err := c.buildPlan(req)
	if err != nil {
		return err
	}

	out := req.OutputPath
	if out == "" {
		out = c.defaultOutputPath(req)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.renderer.Render(p, out); err != nil {
		return err
	}
	report.OutputPath = out
	return nil
}

// buildPlan resolves settings, splits the title, and composes the full
// operation list for one request.
func (c *Creator) buildPlan(req *models.CardRequest) (*plan.RenderPlan, *models.EffectiveCardSettings, error) {
	reg, ok := c.registry.Get(req.CardType)
	if !ok {
		return nil, nil, &UnknownCardTypeError{CardType: req.CardType}
	}
	desc := reg.Descriptor

	settings, err := extras.Resolve(desc, c.layerStack(req, desc))
	if err != nil {
		return nil, nil, err
	}

	// Probe the face up front so a broken font file fails the card
	// before any drawing happens.
	face, err := c.fonts.FaceFor(settings.Font)
	if err != nil {
		return nil, nil, err
	}
	face.Close()

	var lines layout.TitleLines
	if settings.Font.Case != models.CaseBlank {
		title := layout.ApplyCase(settings.Title, settings.Font.Case)
		lines = layout.Split(title, desc.SplitCharacteristics, settings.Font.SplitModifier)
	}

	b := plan.NewBuilder(desc.Identifier, c.width, c.height)
	if req.SourceImage != "" {
		b.SourceImage(req.SourceImage)
	}
	if req.Blur {
		b.Blur(blurSigma)
	}
	if req.Grayscale {
		b.Grayscale()
	}
	if req.Contrast != 0 {
		b.Contrast(req.Contrast)
	}

	cc := &plan.ComposeContext{
		Settings: settings,
		Lines:    lines,
		Fonts:    c.fonts,
		Rand:     randFor(req),
		Width:    c.width,
		Height:   c.height,
	}
	if err := reg.Compose(b, cc); err != nil {
		return nil, nil, err
	}

	if mask := c.maskFor(req); mask != "" {
		b.MaskImage(mask)
	}
	return b.Plan(), settings, nil
}

// layerStack assembles the full priority chain for one request: the
// caller's tiers, the request scalars riding the episode-settings tier,
// and the card-defaults tier derived from the descriptor.
func (c *Creator) layerStack(req *models.CardRequest, desc models.CardTypeDescriptor) []models.SettingsLayer {
	stack := req.Layers.Stack()

	for i := range stack {
		if stack[i].Name != models.LayerEpisodeSettings {
			continue
		}
		values := make(map[string]interface{}, len(stack[i].Values)+3)
		for k, v := range stack[i].Values {
			values[k] = v
		}
		if req.Title != "" {
			values[models.KeyTitle] = req.Title
		}
		if req.SeasonText != "" {
			values[models.KeySeasonText] = req.SeasonText
		}
		if req.EpisodeText != "" {
			values[models.KeyEpisodeText] = req.EpisodeText
		}
		stack[i].Values = values
		break
	}

	return append(stack, cardtypes.DefaultsLayer(desc))
}

// maskFor returns the mask image for a request: the explicit one, or a
// sibling "<stem>-mask.<ext>" file discovered next to the source image.
func (c *Creator) maskFor(req *models.CardRequest) string {
	if req.MaskImage != "" {
		return req.MaskImage
	}
	if req.SourceImage == "" {
		return ""
	}

	ext := filepath.Ext(req.SourceImage)
	candidate := strings.TrimSuffix(req.SourceImage, ext) + "-mask" + ext
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func (c *Creator) defaultOutputPath(req *models.CardRequest) string {
	base := filepath.Base(req.SourceImage)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.outputDir, stem+".jpg")
}

// randFor returns the per-request random source. A seeded request draws
// reproducibly; everything else gets a fresh time-derived source.
func randFor(req *models.CardRequest) *rand.Rand {
	if req.Seed != nil {
		return rand.New(rand.NewSource(*req.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
