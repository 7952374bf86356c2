package kyberswap_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/kyberswap"
	"meta-swap/pkg/types"
)

const (
	usdc = "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"
	dai  = "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1"
)

type staticDecimals map[string]int

func (s staticDecimals) Decimals(_ context.Context, _ int64, token string) (int, error) {
	d, ok := s[strings.ToLower(token)]
	if !ok {
		return 0, fmt.Errorf("unknown token %s", token)
	}
	return d, nil
}

var decimals = staticDecimals{strings.ToLower(usdc): 6, strings.ToLower(dai): 18}

func swapRequest() *types.SwapRequest {
	return &types.SwapRequest{
		Input:        usdc,
		InputChainID: 10,
		Output:       dai,
		AmountWei:    "1000000",
		Payer:        "0xC373f2C4efFD31626c79eFCd891aA7759cF61886",
		MaxSlippage:  50,
	}
}

func TestTransactionRequest(t *testing.T) {
	t.Parallel()

	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("/optimism/api/v1/routes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "astrolab", r.Header.Get("x-client-id"))
		assert.Equal(t, "50", r.URL.Query().Get("slippageTolerance"))
		assert.Equal(t, usdc, r.URL.Query().Get("tokenIn"))
		_, _ = w.Write([]byte(`{"code": 0, "data": {"routeSummary": {
			"tokenIn": "` + usdc + `", "amountIn": "1000000", "amountOut": "1001000000000000000",
			"gas": "150000", "gasUsd": "0.02", "route": [[{"pool": "0xpool"}]]}}}`))
	})
	mux.HandleFunc("/optimism/api/v1/route/build", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		summary, _ := body["routeSummary"].(map[string]any)
		assert.Contains(t, summary, "route")
		assert.Equal(t, float64(50), body["slippageTolerance"])
		assert.Equal(t, true, body["skipSimulateTx"])
		assert.NotZero(t, body["deadline"])
		_, _ = w.Write([]byte(`{"code": 0, "data": {"data": "0x1234", "gas": 150000,
			"routerAddress": "0x6131B5fae19EA4f9D964eAc0408E4408b66337b5"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := kyberswap.New(provider.Settings{BaseURL: srv.URL}, decimals)

	// Act
	tr, err := client.TransactionRequest(t.Context(), swapRequest())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "0x1234", tr.Data)
	assert.Equal(t, "300000", tr.GasLimit)
	assert.Equal(t, "0", tr.Value)
	assert.Equal(t, "0x6131B5fae19EA4f9D964eAc0408E4408b66337b5", tr.To)
	assert.InDelta(t, 1.001, tr.EstimatedExchangeRate, 1e-9)
	assert.InDelta(t, 0.02, tr.TotalGasCostUSD, 1e-9)
}

func TestTransactionRequest_AbsentForCrossChainAndUnknownChain(t *testing.T) {
	t.Parallel()

	client := kyberswap.New(provider.Settings{BaseURL: "http://127.0.0.1:1"}, decimals)

	cross := swapRequest()
	cross.OutputChainID = 42161
	tr, err := client.TransactionRequest(t.Context(), cross)
	require.NoError(t, err)
	require.Nil(t, tr)

	unknown := swapRequest()
	unknown.InputChainID = 999999
	tr, err = client.TransactionRequest(t.Context(), unknown)
	require.NoError(t, err)
	require.Nil(t, tr)
}

func TestTransactionRequest_NoResolver(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/build") {
			_, _ = w.Write([]byte(`{"data": {"data": "0x12", "gas": "1"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data": {"routeSummary": {"amountOut": "1"}}}`))
	}))
	defer srv.Close()

	_, err := kyberswap.New(provider.Settings{BaseURL: srv.URL}, nil).TransactionRequest(t.Context(), swapRequest())
	require.ErrorIs(t, err, chain.ErrNoRPC)
}
