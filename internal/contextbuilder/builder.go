// Package contextbuilder fans out to the telemetry collectors and
// assembles the complete campaign context a pipeline run reasons over.
// Context assembly is all-or-nothing: if any collector fails, the
// whole build fails and no partial context is returned.
package contextbuilder

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adpilot/internal/collector"
)

// CampaignContext is the full telemetry snapshot for one campaign.
type CampaignContext struct {
	CampaignID string                      `json:"campaign_id"`
	Campaign   collector.CampaignMetrics   `json:"campaign_metrics"`
	Creative   collector.CreativeMetrics   `json:"creative_metrics"`
	Competitor collector.CompetitorSignals `json:"competitor_signals"`

	CollectedAt    time.Time     `json:"collected_at"`
	CollectionTime time.Duration `json:"collection_time"`
}

// BuilderConfig controls collector behavior.
type BuilderConfig struct {
	// CacheTTL bounds how long collector results are reused.
	CacheTTL time.Duration
	// WindowDays is the analysis window for campaign metrics.
	WindowDays int
}

// DefaultBuilderConfig returns the standard 7-day window with a
// 5-minute collector cache.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		CacheTTL:   5 * time.Minute,
		WindowDays: 7,
	}
}

// Builder assembles campaign context from the three collectors.
type Builder struct {
	config BuilderConfig
	logger *zap.Logger

	campaign   *collector.CampaignCollector
	creative   *collector.CreativeCollector
	competitor *collector.CompetitorCollector
}

// NewBuilder creates a context builder with live (mock-backed)
// collectors.
func NewBuilder(cfg BuilderConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultBuilderConfig().WindowDays
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultBuilderConfig().CacheTTL
	}
	return &Builder{
		config:     cfg,
		logger:     logger,
		campaign:   collector.NewCampaignCollector(cfg.CacheTTL),
		creative:   collector.NewCreativeCollector(cfg.CacheTTL),
		competitor: collector.NewCompetitorCollector(cfg.CacheTTL),
	}
}

// NewBuilderSeeded creates a builder whose collectors generate
// reproducible data. Used in tests and demos.
func NewBuilderSeeded(cfg BuilderConfig, logger *zap.Logger, seed int64) *Builder {
	b := NewBuilder(cfg, logger)
	b.campaign = collector.NewCampaignCollectorSeeded(b.config.CacheTTL, seed)
	b.creative = collector.NewCreativeCollectorSeeded(b.config.CacheTTL, seed+1)
	b.competitor = collector.NewCompetitorCollectorSeeded(b.config.CacheTTL, seed+2)
	return b
}

// Build collects all three telemetry sources concurrently and returns
// the assembled context. The first collector error aborts the build;
// the returned error is a *collector.CollectionError naming the source
// that failed.
func (b *Builder) Build(ctx context.Context, campaignID string) (CampaignContext, error) {
	start := time.Now()

	var (
		campaignMetrics   collector.CampaignMetrics
		creativeMetrics   collector.CreativeMetrics
		competitorSignals collector.CompetitorSignals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := b.campaign.Collect(gctx, campaignID, b.config.WindowDays)
		if err != nil {
			return &collector.CollectionError{Source: "campaign", Err: err}
		}
		campaignMetrics = m
		return nil
	})
	g.Go(func() error {
		m, err := b.creative.Collect(gctx, campaignID)
		if err != nil {
			return &collector.CollectionError{Source: "creative", Err: err}
		}
		creativeMetrics = m
		return nil
	})
	g.Go(func() error {
		s, err := b.competitor.Collect(gctx, campaignID)
		if err != nil {
			return &collector.CollectionError{Source: "competitor", Err: err}
		}
		competitorSignals = s
		return nil
	})

	if err := g.Wait(); err != nil {
		b.logger.Warn("context collection failed",
			zap.String("campaign_id", campaignID),
			zap.Error(err))
		return CampaignContext{}, err
	}

	elapsed := time.Since(start)
	b.logger.Debug("context collected",
		zap.String("campaign_id", campaignID),
		zap.Duration("elapsed", elapsed))

	return CampaignContext{
		CampaignID:     campaignID,
		Campaign:       campaignMetrics,
		Creative:       creativeMetrics,
		Competitor:     competitorSignals,
		CollectedAt:    time.Now(),
		CollectionTime: elapsed,
	}, nil
}

// FromScenario assembles a context directly from a predefined scenario
// fixture, bypassing the collectors entirely.
func FromScenario(s collector.Scenario) CampaignContext {
	return CampaignContext{
		CampaignID:     s.Campaign.CampaignID,
		Campaign:       s.Campaign,
		Creative:       s.Creative,
		Competitor:     s.Competitor,
		CollectedAt:    time.Now(),
		CollectionTime: 0,
	}
}
