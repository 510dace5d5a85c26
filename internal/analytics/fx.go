package analytics

import (
	"github.com/leavehub/leavehub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("analytics",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) Tracker {
	if !cfg.Analytics.Enabled || cfg.Analytics.Endpoint == "" {
		return NoOpTracker{}
	}
	return NewHTTPTracker(cfg.Analytics.Endpoint, cfg.Analytics.WebsiteID, log)
}
