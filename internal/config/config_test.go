package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	doc := []byte(`
seed: 99
player:
  speed: 10
enemies:
  tank:
    health: 200
waves:
  base_count: 7
`)
	cfg, err := Parse(doc)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 10.0, cfg.Player.Speed)
	assert.Equal(t, def.Player.AttackRange, cfg.Player.AttackRange, "unset keys keep defaults")
	assert.Equal(t, 200, cfg.Enemies.Tank.Health)
	assert.Equal(t, def.Enemies.Tank.Speed, cfg.Enemies.Tank.Speed)
	assert.Equal(t, def.Enemies.Basic, cfg.Enemies.Basic)
	assert.Equal(t, 7, cfg.Waves.BaseCount)
	assert.Equal(t, def.Terrain, cfg.Terrain)
}

func TestParse_RejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("player:\n  speed: 0\nnav:\n  refresh_interval: -1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "player.speed")
	assert.Contains(t, err.Error(), "nav.refresh_interval")
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("player: [1, 2"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestValidate_BridgeRoom(t *testing.T) {
	cfg := Default()
	cfg.Terrain.SecondaryDistance = 40
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary_distance")
}
