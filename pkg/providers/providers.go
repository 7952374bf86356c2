// Package providers builds the provider registry from configuration.
package providers

import (
	"github.com/sirupsen/logrus"

	"meta-swap/config"
	"meta-swap/pkg/chain"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/kyberswap"
	"meta-swap/pkg/provider/lifi"
	"meta-swap/pkg/provider/oneclick"
	"meta-swap/pkg/provider/oneinch"
	"meta-swap/pkg/provider/paraswap"
	"meta-swap/pkg/provider/socket"
	"meta-swap/pkg/provider/squid"
	"meta-swap/pkg/provider/zerox"
	"meta-swap/pkg/types"
)

// Settings returns the adapter settings of provider id
func Settings(cfg *config.Config, id types.ProviderID, log *logrus.Entry) provider.Settings {
	pc := cfg.Providers[id]
	return provider.Settings{
		APIKey:     pc.APIKey,
		BaseURL:    pc.BaseURL,
		Integrator: pc.Integrator,
		Timeout:    cfg.HTTPTimeout,
		RateLimit:  pc.RateLimit,
		Burst:      pc.Burst,
		Logger:     log,
	}
}

// Build creates every adapter. The returned function closes the RPC
// connections opened for token decimals.
func Build(cfg *config.Config, log *logrus.Entry) (*provider.Registry, func()) {
	decimals := chain.NewRPCDecimals(cfg.RPC)
	s := func(id types.ProviderID) provider.Settings { return Settings(cfg, id, log) }

	registry := provider.NewRegistry(
		lifi.New(s(types.LiFi)),
		squid.New(s(types.Squid)),
		socket.New(s(types.Socket)),
		kyberswap.New(s(types.KyberSwap), decimals),
		oneinch.New(s(types.OneInch), decimals),
		zerox.New(s(types.ZeroX), decimals),
		paraswap.New(s(types.ParaSwap)),
		oneclick.New(s(types.OneClick)),
	)
	return registry, decimals.Close
}

// OneClick returns the 1Click adapter of a registry built by Build
func OneClick(r *provider.Registry) (*oneclick.Client, bool) {
	p, ok := r.Get(types.OneClick)
	if !ok {
		return nil, false
	}
	c, ok := p.(*oneclick.Client)
	return c, ok
}
