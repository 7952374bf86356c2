package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"

	"meta-swap/pkg/aggregator"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/providers"
)

// newAggregator builds every adapter from the loaded configuration
func newAggregator() (*aggregator.Aggregator, *provider.Registry, func()) {
	log := logrus.WithField("app", "meta-swap")
	registry, closeFn := providers.Build(cfg, log)
	agg := aggregator.New(registry,
		aggregator.WithLogger(log.WithField("component", "aggregator")),
		aggregator.WithDefaults(aggregator.Defaults{
			Providers:             cfg.DefaultProviders,
			ContractCallProviders: cfg.ContractCallProviders,
			Project:               cfg.DefaultProject,
			MaxSlippage:           cfg.DefaultMaxSlippage,
		}),
	)
	return agg, registry, closeFn
}

// startSpinner shows progress on the terminal, nothing in JSON mode
func startSpinner(suffix string, jsonOutput bool) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = suffix
		s.Start()
	}
	return s
}

func printJSON(v any) {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(jsonData))
}
