package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/types"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "astrolab", cfg.DefaultProject)
	assert.Equal(t, 2000, cfg.DefaultMaxSlippage)
	assert.Equal(t, []types.ProviderID{types.LiFi, types.Squid, types.Socket}, cfg.DefaultProviders)
	assert.Equal(t, []types.ProviderID{types.LiFi, types.Squid}, cfg.ContractCallProviders)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Len(t, cfg.Providers, len(types.AllProviders))
}

func TestLoad_Environment(t *testing.T) {
	// Arrange
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIFI_API_KEY", "lifi-key")
	t.Setenv("LIFI_PROJECT_ID", "my-project")
	t.Setenv("ONECLICK_JWT_TOKEN", "jwt")
	t.Setenv("META_SWAP_PROVIDERS_ONE_INCH_API_KEY", "inch-key")
	t.Setenv("META_SWAP_HTTP_TIMEOUT", "5s")
	t.Setenv("META_SWAP_DEFAULTS_PROVIDERS", "lifi,kyber")
	t.Setenv("META_SWAP_LOG_LEVEL", "debug")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "lifi-key", cfg.Providers[types.LiFi].APIKey)
	assert.Equal(t, "my-project", cfg.Providers[types.LiFi].Integrator)
	assert.Equal(t, "jwt", cfg.Providers[types.OneClick].APIKey)
	assert.Equal(t, "inch-key", cfg.Providers[types.OneInch].APIKey)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []types.ProviderID{types.LiFi, types.KyberSwap}, cfg.DefaultProviders)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SQUID_API_KEY", "plain")
	t.Setenv("META_SWAP_PROVIDERS_SQUID_API_KEY", "prefixed")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Providers[types.Squid].APIKey)
}

func TestFromViper(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "rpc endpoints",
			values: map[string]any{
				"rpc": map[string]any{"10": "https://mainnet.optimism.io", "42161": "https://arb1.arbitrum.io/rpc"},
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://mainnet.optimism.io", cfg.RPC[10])
				assert.Equal(t, "https://arb1.arbitrum.io/rpc", cfg.RPC[42161])
			},
		},
		{
			name: "provider section",
			values: map[string]any{
				"providers.kyberswap.base_url":   "http://localhost:9999",
				"providers.kyberswap.rate_limit": 2.5,
				"providers.kyberswap.burst":      3,
			},
			check: func(t *testing.T, cfg *Config) {
				p := cfg.Providers[types.KyberSwap]
				assert.Equal(t, "http://localhost:9999", p.BaseURL)
				assert.InDelta(t, 2.5, p.RateLimit, 1e-9)
				assert.Equal(t, 3, p.Burst)
			},
		},
		{name: "bad rpc key", values: map[string]any{"rpc": map[string]any{"optimism": "x"}}, wantErr: "invalid rpc chain id"},
		{name: "bad timeout", values: map[string]any{"http.timeout": "soon"}, wantErr: "invalid http.timeout"},
		{name: "bad level", values: map[string]any{"log.level": "loud"}, wantErr: "invalid log.level"},
		{name: "bad provider", values: map[string]any{"defaults.providers": []string{"uniswap"}}, wantErr: "unknown provider"},
		{name: "slippage out of range", values: map[string]any{"defaults.max_slippage": 20_000}, wantErr: "max_slippage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := viper.New()
			v.SetDefault("http.timeout", "30s")
			v.SetDefault("log.level", "info")
			for k, val := range tc.values {
				v.Set(k, val)
			}

			cfg, err := fromViper(v)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestParseProviders(t *testing.T) {
	t.Parallel()

	ids, err := ParseProviders([]string{"LIFI,squid", " 1inch ", ""})

	require.NoError(t, err)
	assert.Equal(t, []types.ProviderID{types.LiFi, types.Squid, types.OneInch}, ids)
}
