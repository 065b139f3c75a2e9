package config

import (
	"os"
	"path/filepath"
	"testing"

	"debate-tab-system/draw"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://tab@localhost/tab")
	t.Setenv("TAB_SERVICE_TOKEN", "secret")
	t.Setenv("DRAW_CONFIG_PATH", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "https://tab.example.org, http://localhost:3000 ,")
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acc")
	t.Setenv("CDN_BASE_URL", "")
	t.Setenv("R2_BUCKET_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5200", cfg.Port)
	assert.Equal(t, []string{"https://tab.example.org", "http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, draw.DefaultConfig(), cfg.Draw)
	assert.Equal(t, PublicConfig{RateLimitPerSec: 5, RateLimitBurst: 10, CacheTTLSeconds: 30}, cfg.Public)
	assert.Equal(t, "https://acc.r2.cloudflarestorage.com", cfg.R2.CDNBaseURL)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "database url", env: map[string]string{"DATABASE_URL": "", "TAB_SERVICE_TOKEN": "x"}},
		{name: "service token", env: map[string]string{"DATABASE_URL": "postgres://x", "TAB_SERVICE_TOKEN": ""}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_TuningFile(t *testing.T) {
	setRequired(t)
	t.Setenv("DRAW_CONFIG_PATH", writeTuning(t, `
draw:
  repeat_pairing_penalty: 40
  position_strategy: entropy_matching
  renyi_order: 2
  avoid_judge_clashes: true
public:
  rate_limit_per_sec: 1.5
`))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Draw.RepeatPairingPenalty)
	assert.Equal(t, draw.StrategyEntropyMatching, cfg.Draw.PositionStrategy)
	assert.Equal(t, 2.0, cfg.Draw.RenyiOrder)
	assert.True(t, cfg.Draw.AvoidJudgeClashes)
	assert.Equal(t, draw.DefaultClashPenalty, cfg.Draw.ClashPenalty)
	assert.Equal(t, 1.5, cfg.Public.RateLimitPerSec)
	assert.Equal(t, 10, cfg.Public.RateLimitBurst)
}

func TestLoad_InvalidTuning(t *testing.T) {
	setRequired(t)
	t.Setenv("DRAW_CONFIG_PATH", writeTuning(t, "draw:\n  position_strategy: greedy\n"))
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DRAW_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
