package recommend

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/infra/config"
)

// NewStrategyFromConfig creates a retrieval strategy from configuration.
func NewStrategyFromConfig(cfg *config.Config, catalog CatalogClient) (Strategy, error) {
	scfg := cfg.Recommend.Strategy

	var (
		strategy Strategy
		err      error
	)
	switch scfg.Type {
	case "search":
		strategy, err = NewSearchStrategy(catalog, scfg.Settings)

	case "artist_expansion":
		strategy, err = NewArtistExpansionStrategy(catalog, scfg.Settings)

	default:
		return nil, errors.Newf("unsupported strategy type: %s", scfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create strategy (type %s)", scfg.Type)
	}

	zlog.Info().Msgf("registered retrieval strategy: type=%s", strategy.Name())
	return strategy, nil
}

// StrategyTypes lists the configurable strategy types with a short
// description each.
func StrategyTypes() map[string]string {
	return map[string]string{
		"search":           "one mood-keyword catalog search, capped at 50 results",
		"artist_expansion": "per-genre artist search expanded through top tracks",
	}
}
