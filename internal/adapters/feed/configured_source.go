package feed

import (
	"github.com/rs/zerolog"
	"github.com/spinecare/fracture-dashboard/internal/adapters/workbook"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/clients/sheetfeed"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
	"github.com/spinecare/fracture-dashboard/pkg/config"
)

// NewConfiguredSource selects the primary record source from configuration
// and wraps it in a FallbackSource. A workbook path wins over a feed URL;
// with neither set only the bundled dataset is served.
func NewConfiguredSource(cfg *config.FeedConfig, logger zerolog.Logger, metrics *observability.Metrics) (*FallbackSource, error) {
	var primary providers.RecordSource

	switch {
	case cfg.WorkbookPath != "":
		primary = workbook.NewSource(cfg.WorkbookPath, cfg.WorkbookSheet)
		logger.Info().Str("path", cfg.WorkbookPath).Msg("reading records from workbook")
	case cfg.URL != "":
		client, err := sheetfeed.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		primary = client
		logger.Info().Dur("timeout", cfg.Timeout).Msg("reading records from sheet feed")
	default:
		logger.Warn().Msg("no record feed configured, serving bundled sample data")
	}

	return NewFallbackSource(primary, logger, metrics), nil
}
