package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockyourlot/stocklot-client/internal/config"
)

func TestAPIBasePrecedence(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		t.Setenv("STOCKLOT_API_BASE_URL", "https://api.example.com/")
		t.Setenv("STOCKLOT_ENV", "production")
		c, err := config.New()
		require.NoError(t, err)
		require.Equal(t, "https://api.example.com", c.APIBase(), "trailing slash stripped")
	})

	t.Run("production default", func(t *testing.T) {
		t.Setenv("STOCKLOT_API_BASE_URL", "")
		t.Setenv("STOCKLOT_ENV", "Production")
		c, err := config.New()
		require.NoError(t, err)
		require.True(t, c.IsProduction())
		require.NotContains(t, c.APIBase(), "localhost")
	})

	t.Run("local development default", func(t *testing.T) {
		t.Setenv("STOCKLOT_API_BASE_URL", "")
		t.Setenv("STOCKLOT_ENV", "")
		c, err := config.New()
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8080", c.APIBase())
	})
}

func TestSessionPath(t *testing.T) {
	t.Run("explicit file wins", func(t *testing.T) {
		t.Setenv("STOCKLOT_SESSION_FILE", filepath.Join("some", "dir", "s.json"))
		c, err := config.New()
		require.NoError(t, err)
		require.Equal(t, filepath.Join("some", "dir", "s.json"), c.SessionPath())
	})

	t.Run("defaults under the home directory", func(t *testing.T) {
		t.Setenv("STOCKLOT_SESSION_FILE", "")
		c, err := config.New()
		require.NoError(t, err)
		require.Contains(t, c.SessionPath(), ".stock-your-lot")
	})
}
