package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnm1998/woowacourse-artune/internal/infra/config"
)

func TestNewStrategyFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		strategy config.StrategyConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "Search strategy",
			strategy: config.StrategyConfig{Type: "search"},
			wantName: "search",
		},
		{
			name: "Artist expansion with settings",
			strategy: config.StrategyConfig{
				Type:     "artist_expansion",
				Settings: map[string]any{"popularity_floor": 60, "seed": 1},
			},
			wantName: "artist_expansion",
		},
		{
			name:     "Unknown type",
			strategy: config.StrategyConfig{Type: "magic"},
			wantErr:  true,
		},
		{
			name: "Invalid settings surface with context",
			strategy: config.StrategyConfig{
				Type:     "search",
				Settings: map[string]any{"search_limit": 999},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Recommend.Strategy = tt.strategy

			s, err := NewStrategyFromConfig(cfg, &mockCatalog{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}

func TestStrategyTypes(t *testing.T) {
	types := StrategyTypes()
	assert.Contains(t, types, "search")
	assert.Contains(t, types, "artist_expansion")
}
