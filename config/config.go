package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"meta-swap/pkg/types"
)

// EnvPrefix prefixes every environment variable read through viper
const EnvPrefix = "META_SWAP"

// ProviderConfig configures one provider adapter
type ProviderConfig struct {
	APIKey     string
	BaseURL    string
	Integrator string
	RateLimit  float64
	Burst      int
}

// Config holds the application configuration
type Config struct {
	Providers   map[types.ProviderID]ProviderConfig
	HTTPTimeout time.Duration
	// RPC maps chain ids to JSON-RPC endpoints used to read token decimals
	RPC map[int64]string

	DefaultProviders      []types.ProviderID
	ContractCallProviders []types.ProviderID
	DefaultProject        string
	DefaultMaxSlippage    int

	ServerAddr string
	LogLevel   logrus.Level
	LogFormat  string
}

// credentials lists the conventional environment variables of each provider,
// read in addition to META_SWAP_PROVIDERS_<NAME>_API_KEY
var credentials = map[types.ProviderID]struct{ apiKey, integrator string }{
	types.LiFi:      {"LIFI_API_KEY", "LIFI_PROJECT_ID"},
	types.Squid:     {"SQUID_API_KEY", "SQUID_PROJECT_ID"},
	types.Socket:    {"SOCKET_API_KEY", ""},
	types.KyberSwap: {"KYBERSWAP_API_KEY", ""},
	types.OneInch:   {"ONE_INCH_API_KEY", ""},
	types.ZeroX:     {"ZERO_X_API_KEY", ""},
	types.ParaSwap:  {"PARASWAP_API_KEY", ""},
	types.OneClick:  {"ONECLICK_JWT_TOKEN", ""},
}

// Key returns the config section name of a provider ("one_inch")
func Key(id types.ProviderID) string {
	return strings.ToLower(string(id))
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".meta-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("http.timeout", "30s")
	v.SetDefault("defaults.project", "astrolab")
	v.SetDefault("defaults.max_slippage", 2000)
	v.SetDefault("defaults.providers", []string{"LIFI", "SQUID", "SOCKET"})
	v.SetDefault("defaults.contract_call_providers", []string{"LIFI", "SQUID"})
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for id, env := range credentials {
		if err := bindEnv(v, "providers."+Key(id)+".api_key", env.apiKey); err != nil {
			return nil, err
		}
		if err := bindEnv(v, "providers."+Key(id)+".integrator", env.integrator); err != nil {
			return nil, err
		}
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func bindEnv(v *viper.Viper, key, conventional string) error {
	names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if conventional != "" {
		names = append(names, conventional)
	}
	if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
		return fmt.Errorf("failed to bind %s: %w", key, err)
	}
	return nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Providers:          make(map[types.ProviderID]ProviderConfig, len(types.AllProviders)),
		RPC:                make(map[int64]string),
		DefaultProject:     v.GetString("defaults.project"),
		DefaultMaxSlippage: v.GetInt("defaults.max_slippage"),
		ServerAddr:         v.GetString("server.addr"),
		LogFormat:          strings.ToLower(v.GetString("log.format")),
	}

	timeout, err := time.ParseDuration(v.GetString("http.timeout"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid http.timeout %q", v.GetString("http.timeout"))
	}
	cfg.HTTPTimeout = timeout

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}
	cfg.LogLevel = level

	if cfg.DefaultMaxSlippage < 0 || cfg.DefaultMaxSlippage > 10_000 {
		return nil, fmt.Errorf("defaults.max_slippage must be within 0..10000 bps, got %d", cfg.DefaultMaxSlippage)
	}
	if cfg.DefaultProviders, err = ParseProviders(v.GetStringSlice("defaults.providers")); err != nil {
		return nil, fmt.Errorf("defaults.providers: %w", err)
	}
	if cfg.ContractCallProviders, err = ParseProviders(v.GetStringSlice("defaults.contract_call_providers")); err != nil {
		return nil, fmt.Errorf("defaults.contract_call_providers: %w", err)
	}

	for _, id := range types.AllProviders {
		prefix := "providers." + Key(id) + "."
		cfg.Providers[id] = ProviderConfig{
			APIKey:     v.GetString(prefix + "api_key"),
			BaseURL:    v.GetString(prefix + "base_url"),
			Integrator: v.GetString(prefix + "integrator"),
			RateLimit:  v.GetFloat64(prefix + "rate_limit"),
			Burst:      v.GetInt(prefix + "burst"),
		}
	}

	for key, url := range v.GetStringMapString("rpc") {
		chainID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rpc chain id %q", key)
		}
		cfg.RPC[chainID] = url
	}
	return cfg, nil
}

// ParseProviders converts a list of names into provider ids. Each entry may
// itself be comma separated.
func ParseProviders(names []string) ([]types.ProviderID, error) {
	var ids []types.ProviderID
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := types.ParseProviderID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
