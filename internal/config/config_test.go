package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/headstoneworld/orders-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HW_JWT_SECRET", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "Headstone World Orders API", cfg.AppName)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":3001", cfg.HTTPAddress())
	require.Equal(t, "jobs/2024", cfg.OrdersRoot)
	require.Equal(t, "report.json", cfg.ReportPath)
	require.Equal(t, "dailyreport.xlsx", cfg.DailyReportPath)
	require.Equal(t, "userData.xlsx", cfg.UserStorePath)
	require.Empty(t, cfg.SharedPasswords)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HW_JWT_SECRET", "test-secret")
	t.Setenv("HW_APP_PORT", "8080")
	t.Setenv("HW_ORDERS_ROOT", "/srv/orders")
	t.Setenv("HW_SHARED_PASSWORDS", "alpha, beta ,gamma")
	t.Setenv("HW_RECIPIENTS_CEMETERY", "office@example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "/srv/orders", cfg.OrdersRoot)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.SharedPasswords)
	require.Equal(t, []string{"office@example.com"}, cfg.RecipientsCemetery)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("HW_JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestHTTPAddressPassesThroughColonPrefix(t *testing.T) {
	cfg := config.Config{AppPort: ":9000"}
	require.Equal(t, ":9000", cfg.HTTPAddress())
}
