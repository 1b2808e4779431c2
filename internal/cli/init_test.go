package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = SetupLogger("nonsense")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("INVOICE_DB_PATH", filepath.Join(t.TempDir(), "invoice_app.db"))
	t.Setenv("PORT", "5000")

	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)

	t.Setenv("PORT", "not-a-port")
	_, err = LoadAndValidateConfig()
	assert.Error(t, err)
}

func TestInitSQLite(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "data", "invoice_app.db")

	repo, err := InitSQLite(ctx, SetupLogger("error"), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Ping(ctx))
}
