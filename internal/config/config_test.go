package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radar-mms/ccl/internal/lib/traverse"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30.0, cfg.Planner.DefaultSpacing)
	assert.Equal(t, traverse.TopLeft, cfg.Planner.Entry())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ccl.yaml")
	yaml := `
server:
  port: 9000
  read_timeout: 3s
planner:
  default_spacing: 45
  default_entry: bottom-right
  cache_ttl: 1h
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("CCL__SERVER__PORT", "9090")
	t.Setenv("CCL__PLANNER__MAX_TILES", "250")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, 45.0, cfg.Planner.DefaultSpacing)
	assert.Equal(t, traverse.BottomRight, cfg.Planner.Entry())
	assert.Equal(t, time.Hour, cfg.Planner.CacheTTL)
	assert.Equal(t, 250, cfg.Planner.MaxTiles)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ccl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Planner.DefaultSpacing = 0.1
	cfg.Planner.DefaultEntry = "middle"
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "planner.default_spacing")
	assert.Contains(t, err.Error(), "planner.default_entry")
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidate_RejectsNaN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Planner.DefaultSpacing = math.NaN()
	cfg.Planner.DefaultAngle = math.NaN()
	cfg.Planner.DefaultTurnAround = math.Inf(1)
	cfg.Planner.OrthodromSpacing = math.NaN()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner.default_spacing")
	assert.Contains(t, err.Error(), "planner.default_angle")
	assert.Contains(t, err.Error(), "planner.default_turn_around")
	assert.Contains(t, err.Error(), "planner.orthodrom_spacing_km")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "planner.cache_ttl", envKey("CCL__PLANNER__CACHE_TTL"))
	assert.Equal(t, "server.port", envKey("CCL__SERVER__PORT"))
}
