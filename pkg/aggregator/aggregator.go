// Package aggregator queries several providers for the same swap and keeps
// the best executable transaction.
package aggregator

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/metrics"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

// Defaults fills the fields a request leaves unset
type Defaults struct {
	Providers             []types.ProviderID
	ContractCallProviders []types.ProviderID
	Project               string
	MaxSlippage           int
}

// StandardDefaults returns the defaults used when none are configured
func StandardDefaults() Defaults {
	return Defaults{
		Providers:             []types.ProviderID{types.LiFi, types.Squid, types.Socket},
		ContractCallProviders: []types.ProviderID{types.LiFi, types.Squid},
		Project:               "astrolab",
		MaxSlippage:           2000,
	}
}

// Aggregator fans a request out to providers and ranks the answers
type Aggregator struct {
	registry *provider.Registry
	defaults Defaults
	log      *logrus.Entry
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithDefaults replaces the standard defaults. Empty fields keep theirs.
func WithDefaults(d Defaults) Option {
	return func(a *Aggregator) {
		if len(d.Providers) > 0 {
			a.defaults.Providers = slices.Clone(d.Providers)
		}
		if len(d.ContractCallProviders) > 0 {
			a.defaults.ContractCallProviders = slices.Clone(d.ContractCallProviders)
		}
		if d.Project != "" {
			a.defaults.Project = d.Project
		}
		if d.MaxSlippage > 0 {
			a.defaults.MaxSlippage = d.MaxSlippage
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Entry) Option {
	return func(a *Aggregator) {
		a.log = log
	}
}

// New creates an aggregator over the providers of registry
func New(registry *provider.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: registry,
		defaults: StandardDefaults(),
		log:      logrus.WithField("component", "aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the providers the aggregator can query
func (a *Aggregator) Registry() *provider.Registry {
	return a.registry
}

// Defaults returns the effective defaults
func (a *Aggregator) Defaults() Defaults {
	return a.defaults
}

// AllTransactionRequests asks every requested provider for a transaction
// and returns the answers best first. It returns (nil, nil) when no
// provider has a route. Provider failures are logged, only invalid input
// is reported.
func (a *Aggregator) AllTransactionRequests(ctx context.Context, req *types.SwapRequest) ([]*types.TransactionRequestWithEstimate, error) {
	req, err := a.withDefaults(req)
	if err != nil {
		return nil, err
	}
	if err := provider.Validate(req); err != nil {
		return nil, err
	}

	log := a.log.WithField("request_id", uuid.NewString())
	log.Debugf("quoting %s", req)

	results := make([]*types.TransactionRequestWithEstimate, len(req.ProviderIDs))
	var g errgroup.Group
	for i, id := range req.ProviderIDs {
		p, ok := a.registry.Get(id)
		if !ok {
			log.Warnf("unknown provider %s, skipped", id)
			continue
		}
		g.Go(func() error {
			results[i] = a.quote(ctx, log, p, req)
			return nil
		})
	}
	_ = g.Wait()

	routes := slices.DeleteFunc(results, func(tr *types.TransactionRequestWithEstimate) bool { return tr == nil })
	if len(routes) == 0 {
		log.Warnf("No viable route found for %s", req)
		metrics.NoRouteTotal.Inc()
		return nil, nil
	}

	Rank(routes)
	if req.TestPayer != "" {
		for _, tr := range routes {
			RewritePayer(&tr.TransactionRequest, req.TestPayer, req.Payer)
		}
	}

	log.Infof("%d routes found for %s: %s", len(routes), req, ranking(routes))
	return routes, nil
}

// TransactionRequest returns the best transaction, nil when there is no route
func (a *Aggregator) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	routes, err := a.AllTransactionRequests(ctx, req)
	if err != nil || len(routes) == 0 {
		return nil, err
	}
	return routes[0], nil
}

// CallData returns the data of the best transaction, "" when there is no route
func (a *Aggregator) CallData(ctx context.Context, req *types.SwapRequest) (string, error) {
	tr, err := a.TransactionRequest(ctx, req)
	if err != nil || tr == nil {
		return "", err
	}
	return tr.Data, nil
}

func (a *Aggregator) quote(ctx context.Context, log *logrus.Entry, p provider.Provider, req *types.SwapRequest) *types.TransactionRequestWithEstimate {
	id := p.ID()
	start := time.Now()

	tr, err := transactionRequest(ctx, p, req)
	if err != nil {
		metrics.ObserveProvider(string(id), metrics.OutcomeError, start)
		log.WithField("provider", id).WithError(err).Warn("quote failed")
		return nil
	}
	if tr == nil {
		metrics.ObserveProvider(string(id), metrics.OutcomeAbsent, start)
		log.WithField("provider", id).Debug("no route")
		return nil
	}

	metrics.ObserveProvider(string(id), metrics.OutcomeRoute, start)
	tr.ProviderID = id
	return tr
}

// transactionRequest turns a panic in the adapter into an error so one
// provider cannot take down the whole aggregation
func transactionRequest(ctx context.Context, p provider.Provider, req *types.SwapRequest) (tr *types.TransactionRequestWithEstimate, err error) {
	defer func() {
		if r := recover(); r != nil {
			tr, err = nil, fmt.Errorf("%s: panic: %v", p.ID(), r)
		}
	}()
	return p.TransactionRequest(ctx, req)
}

// withDefaults returns a copy of req with the unset fields filled
func (a *Aggregator) withDefaults(req *types.SwapRequest) (*types.SwapRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", provider.ErrInvalidInput)
	}
	r := req.Clone()
	if len(r.ProviderIDs) == 0 {
		if r.HasContractCalls() {
			r.ProviderIDs = slices.Clone(a.defaults.ContractCallProviders)
		} else {
			r.ProviderIDs = slices.Clone(a.defaults.Providers)
		}
	}
	if r.Project == "" {
		r.Project = a.defaults.Project
	}
	if r.MaxSlippage == 0 {
		r.MaxSlippage = a.defaults.MaxSlippage
	}
	amount, err := estimate.CanonicalAmount(r.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("%w: amountWei: %v", provider.ErrInvalidInput, err)
	}
	r.AmountWei = amount
	return r, nil
}

// Rank sorts routes by exchange rate, best first. Equal rates are ordered
// by gas cost in USD, then keep their order.
func Rank(routes []*types.TransactionRequestWithEstimate) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if a.EstimatedExchangeRate != b.EstimatedExchangeRate {
			return a.EstimatedExchangeRate > b.EstimatedExchangeRate
		}
		return a.TotalGasCostUSD < b.TotalGasCostUSD
	})
}

// ranking renders provider ids in rank order: "LIFI > SQUID"
func ranking(routes []*types.TransactionRequestWithEstimate) string {
	ids := make([]string, len(routes))
	for i, tr := range routes {
		ids[i] = string(tr.ProviderID)
	}
	return strings.Join(ids, " > ")
}
