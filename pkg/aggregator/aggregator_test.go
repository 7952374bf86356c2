package aggregator_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"meta-swap/pkg/aggregator"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

const (
	usdcOptimism = "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"
	daiArbitrum  = "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"
	payer        = "0xC373f2C4efFD31626c79eFCd891aA7759cF61886"
	testPayer    = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
)

func usdcToDai() *types.SwapRequest {
	return &types.SwapRequest{
		Input:         usdcOptimism,
		InputChainID:  10,
		Output:        daiArbitrum,
		OutputChainID: 42161,
		AmountWei:     "1000000000",
		Payer:         payer,
	}
}

func route(rate, gasUSD float64, data string) *types.TransactionRequestWithEstimate {
	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{To: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE", Data: data, ChainID: 10},
		Estimate:           types.Estimate{EstimatedExchangeRate: rate, TotalGasCostUSD: gasUSD},
	}
}

func newMockProvider(ctrl *gomock.Controller, id types.ProviderID) *MockProvider {
	p := NewMockProvider(ctrl)
	p.EXPECT().ID().Return(id).AnyTimes()
	return p
}

func TestAllTransactionRequests_UsdcToDai(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	squid := newMockProvider(ctrl, types.Squid)

	var (
		mu   sync.Mutex
		seen []*types.SwapRequest
	)
	record := func(tr *types.TransactionRequestWithEstimate) func(context.Context, *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
		return func(_ context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
			mu.Lock()
			seen = append(seen, req)
			mu.Unlock()
			return tr, nil
		}
	}
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).DoAndReturn(record(route(0.998, 0.4, "0xaaaa")))
	squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).DoAndReturn(record(route(0.999, 0.9, "0xbbbb")))

	// SOCKET is a default provider but is not registered
	agg := aggregator.New(provider.NewRegistry(lifi, squid))
	req := usdcToDai()

	// Act
	routes, err := agg.AllTransactionRequests(t.Context(), req)

	// Assert
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, types.Squid, routes[0].ProviderID)
	assert.Equal(t, types.LiFi, routes[1].ProviderID)
	assert.GreaterOrEqual(t, routes[0].EstimatedExchangeRate, routes[1].EstimatedExchangeRate)

	require.Len(t, seen, 2)
	for _, r := range seen {
		assert.Equal(t, []types.ProviderID{types.LiFi, types.Squid, types.Socket}, r.ProviderIDs)
		assert.Equal(t, "astrolab", r.Project)
		assert.Equal(t, 2000, r.MaxSlippage)
	}
	assert.Empty(t, req.ProviderIDs, "caller request must not be modified")
	assert.Zero(t, req.MaxSlippage)
}

func TestAllTransactionRequests_FailureIsolation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	squid := newMockProvider(ctrl, types.Squid)
	socket := newMockProvider(ctrl, types.Socket)
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(route(0.99, 1, "0x01"), nil)
	socket.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(nil, nil)

	routes, err := aggregator.New(provider.NewRegistry(lifi, squid, socket)).AllTransactionRequests(t.Context(), usdcToDai())

	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, types.Squid, routes[0].ProviderID)
}

func TestAllTransactionRequests_PanickingProvider(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	squid := newMockProvider(ctrl, types.Squid)
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
			panic("integer overflow")
		})
	squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(route(0.99, 1, "0x01"), nil)

	// Act
	routes, err := aggregator.New(provider.NewRegistry(lifi, squid)).AllTransactionRequests(t.Context(), usdcToDai())

	// Assert
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, types.Squid, routes[0].ProviderID)
}

func TestAllTransactionRequests_NoRoute(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	squid := newMockProvider(ctrl, types.Squid)
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(nil, provider.ErrProviderHTTP)
	squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(nil, nil)
	agg := aggregator.New(provider.NewRegistry(lifi, squid))

	routes, err := agg.AllTransactionRequests(t.Context(), usdcToDai())
	require.NoError(t, err)
	assert.Nil(t, routes)

	tr, err := agg.TransactionRequest(t.Context(), usdcToDai())
	require.NoError(t, err)
	assert.Nil(t, tr)

	data, err := agg.CallData(t.Context(), usdcToDai())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestAllTransactionRequests_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*types.SwapRequest)
	}{
		{name: "short input", modify: func(r *types.SwapRequest) { r.Input = "0x1234" }},
		{name: "payer without prefix", modify: func(r *types.SwapRequest) { r.Payer = r.Payer[2:] + "00" }},
		{name: "negative chain", modify: func(r *types.SwapRequest) { r.InputChainID = -1 }},
		{name: "non numeric amount", modify: func(r *types.SwapRequest) { r.AmountWei = "lots" }},
		{name: "negative amount", modify: func(r *types.SwapRequest) { r.AmountWei = "-5" }},
		{name: "huge exponent", modify: func(r *types.SwapRequest) { r.AmountWei = "1e5000000" }},
		{name: "amount past 256 bits", modify: func(r *types.SwapRequest) { r.AmountWei = "1e78" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// no expectation: any provider call fails the test
			ctrl := gomock.NewController(t)
			lifi := newMockProvider(ctrl, types.LiFi)
			req := usdcToDai()
			req.ProviderIDs = []types.ProviderID{types.LiFi}
			tc.modify(req)

			_, err := aggregator.New(provider.NewRegistry(lifi)).AllTransactionRequests(t.Context(), req)

			require.ErrorIs(t, err, provider.ErrInvalidInput)
		})
	}
}

func TestAllTransactionRequests_NilRequest(t *testing.T) {
	t.Parallel()

	_, err := aggregator.New(provider.NewRegistry()).AllTransactionRequests(t.Context(), nil)
	require.ErrorIs(t, err, provider.ErrInvalidInput)
}

func TestAllTransactionRequests_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*types.SwapRequest)
		providers []types.ProviderID
		amount    string
		slippage  int
		project   string
	}{
		{
			name:      "contract calls",
			modify:    func(r *types.SwapRequest) { r.CustomContractCalls = []types.ContractCall{{CallData: "0x01"}} },
			providers: []types.ProviderID{types.LiFi, types.Squid},
			amount:    "1000000000", slippage: 2000, project: "astrolab",
		},
		{
			name:      "scientific amount",
			modify:    func(r *types.SwapRequest) { r.AmountWei = "1.5e9" },
			providers: []types.ProviderID{types.LiFi, types.Squid, types.Socket},
			amount:    "1500000000", slippage: 2000, project: "astrolab",
		},
		{
			name: "explicit values kept",
			modify: func(r *types.SwapRequest) {
				r.ProviderIDs = []types.ProviderID{types.Squid}
				r.MaxSlippage = 50
				r.Project = "vaults"
			},
			providers: []types.ProviderID{types.Squid},
			amount:    "1000000000", slippage: 50, project: "vaults",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			var (
				mu   sync.Mutex
				seen *types.SwapRequest
			)
			capture := func(_ context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
				mu.Lock()
				seen = req
				mu.Unlock()
				return nil, nil
			}
			lifi := newMockProvider(ctrl, types.LiFi)
			squid := newMockProvider(ctrl, types.Squid)
			lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).DoAndReturn(capture).AnyTimes()
			squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).DoAndReturn(capture).AnyTimes()

			req := usdcToDai()
			tc.modify(req)

			_, err := aggregator.New(provider.NewRegistry(lifi, squid)).AllTransactionRequests(t.Context(), req)

			require.NoError(t, err)
			require.NotNil(t, seen)
			assert.Equal(t, tc.providers, seen.ProviderIDs)
			assert.Equal(t, tc.amount, seen.AmountWei)
			assert.Equal(t, tc.slippage, seen.MaxSlippage)
			assert.Equal(t, tc.project, seen.Project)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	agg := aggregator.New(provider.NewRegistry(), aggregator.WithDefaults(aggregator.Defaults{
		Providers:   []types.ProviderID{types.KyberSwap},
		MaxSlippage: 100,
	}))

	d := agg.Defaults()
	assert.Equal(t, []types.ProviderID{types.KyberSwap}, d.Providers)
	assert.Equal(t, []types.ProviderID{types.LiFi, types.Squid}, d.ContractCallProviders)
	assert.Equal(t, "astrolab", d.Project)
	assert.Equal(t, 100, d.MaxSlippage)
}

func TestAllTransactionRequests_TestPayerRewrite(t *testing.T) {
	t.Parallel()

	// Arrange
	word := "000000000000000000000000" + testPayer[2:]
	data := "0xa9059cbb" + word + "00000000000000000000000000000000000000000000000000000000000003e8"

	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
			assert.Equal(t, testPayer, req.Sender())
			tr := route(1, 0, data)
			tr.From = req.Sender()
			return tr, nil
		})

	req := usdcToDai()
	req.ProviderIDs = []types.ProviderID{types.LiFi}
	req.TestPayer = testPayer

	// Act
	tr, err := aggregator.New(provider.NewRegistry(lifi)).TransactionRequest(t.Context(), req)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, payer, tr.From)
	assert.NotContains(t, tr.Data, testPayer[2:])
	assert.Contains(t, tr.Data, "000000000000000000000000c373f2c4effd31626c79efcd891aa7759cf61886")
}

func TestCallData(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	lifi := newMockProvider(ctrl, types.LiFi)
	squid := newMockProvider(ctrl, types.Squid)
	lifi.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(route(1.01, 2, "0xbest"), nil)
	squid.EXPECT().TransactionRequest(gomock.Any(), gomock.Any()).Return(route(1.00, 1, "0xworse"), nil)

	req := usdcToDai()
	req.ProviderIDs = []types.ProviderID{types.Squid, types.LiFi}

	data, err := aggregator.New(provider.NewRegistry(lifi, squid)).CallData(t.Context(), req)

	require.NoError(t, err)
	assert.Equal(t, "0xbest", data)
}

func TestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		routes []*types.TransactionRequestWithEstimate
		want   []string
	}{
		{
			name:   "rate descending",
			routes: []*types.TransactionRequestWithEstimate{route(0.5, 0, "a"), route(0.9, 0, "b"), route(0.7, 0, "c")},
			want:   []string{"b", "c", "a"},
		},
		{
			name:   "equal rates prefer cheaper gas",
			routes: []*types.TransactionRequestWithEstimate{route(1, 3, "a"), route(1, 1, "b"), route(1, 2, "c")},
			want:   []string{"b", "c", "a"},
		},
		{
			name:   "full ties keep order",
			routes: []*types.TransactionRequestWithEstimate{route(1, 1, "a"), route(1, 1, "b"), route(2, 5, "c")},
			want:   []string{"c", "a", "b"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			aggregator.Rank(tc.routes)

			got := make([]string, len(tc.routes))
			for i, r := range tc.routes {
				got[i] = r.Data
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
