package squid_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/squid"
	"meta-swap/pkg/types"
)

const routeBody = `{
	"route": {
		"estimate": {
			"fromAmount": "1000000",
			"toAmount": "998000000000000000",
			"fromToken": {"chainId": "10", "symbol": "USDC", "decimals": 6, "usdPrice": 1.0},
			"toToken": {"chainId": "42161", "symbol": "DAI", "decimals": 18},
			"actions": [
				{"type": "bridge", "provider": "Axelar", "fromChain": "10", "toChain": "42161",
				 "fromToken": {"chainId": "10", "symbol": "USDC", "decimals": 6},
				 "toToken": {"chainId": "42161", "symbol": "USDC", "decimals": 6},
				 "fromAmount": "1000000", "toAmount": "999000"}
			],
			"gasCosts": [{"type": "executeCall", "amount": "2000", "amountUsd": "0.40"}],
			"feeCosts": [{"name": "Gas receiver fee", "amount": "500", "amountUsd": ""}]
		},
		"transactionRequest": {
			"routeType": "CALL_BRIDGE_CALL",
			"target": "0xce16F69375520ab01377ce7B88f5BA8C48F8D666",
			"data": "0xabcdef",
			"value": "150000000000000",
			"gasLimit": "500000",
			"gasPrice": "1000000",
			"maxFeePerGas": "2000000",
			"maxPriorityFeePerGas": "100000"
		}
	}
}`

func swapRequest() *types.SwapRequest {
	return &types.SwapRequest{
		Input:         "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
		InputChainID:  10,
		Output:        "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1",
		OutputChainID: 42161,
		AmountWei:     "1000000",
		Payer:         "0xC373f2C4efFD31626c79eFCd891aA7759cF61886",
		MaxSlippage:   100,
	}
}

func TestTransactionRequest(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/route", r.URL.Path)
		assert.Equal(t, "astrolab-api", r.Header.Get("x-integrator-id"))
		assert.Equal(t, "k", r.Header.Get("api-key"))

		var body squid.RouteParams
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "10", body.FromChain)
		assert.Equal(t, "42161", body.ToChain)
		assert.InDelta(t, 1.0, body.Slippage, 1e-9)
		assert.Equal(t, 1, body.SlippageConfig.AutoMode)
		assert.True(t, body.EnableBoost)
		assert.Nil(t, body.PostHook)
		_, _ = w.Write([]byte(routeBody))
	}))
	defer srv.Close()

	client := squid.New(provider.Settings{APIKey: "k", BaseURL: srv.URL})

	// Act
	tr, err := client.TransactionRequest(t.Context(), swapRequest())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "0xce16F69375520ab01377ce7B88f5BA8C48F8D666", tr.To)
	assert.Equal(t, tr.To, tr.ApprovalAddress)
	assert.Equal(t, "0xabcdef", tr.Data)
	assert.Equal(t, "2000000", tr.MaxFeePerGas)
	assert.Equal(t, int64(10), tr.ChainID)
	assert.InDelta(t, 0.998, tr.EstimatedExchangeRate, 1e-9)
	assert.InDelta(t, 0.4, tr.TotalGasCostUSD, 1e-9)
	assert.Equal(t, "2500", tr.TotalGasCostWei)
	assert.Equal(t, "500", tr.TotalFeeCostWei)
	require.Len(t, tr.Steps, 1)
	assert.Equal(t, "Axelar", tr.Steps[0].Tool)
	assert.Equal(t, int64(42161), tr.Steps[0].ToChain)
}

func TestTransactionRequest_PostHook(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body squid.RouteParams
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.NotNil(t, body.PostHook) && assert.Len(t, body.PostHook.Calls, 1) {
			call := body.PostHook.Calls[0]
			assert.Equal(t, "evm", call.ChainType)
			assert.Equal(t, squid.CallTypeFullTokenBalance, call.CallType)
			assert.Equal(t, "0x2222222222222222222222222222222222222222", call.Target)
			assert.Equal(t, "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", call.Payload.TokenAddress)
			assert.Equal(t, 1, call.Payload.InputPos)
			assert.Equal(t, "20000", call.EstimatedGas)
		}
		_, _ = w.Write([]byte(routeBody))
	}))
	defer srv.Close()

	req := swapRequest()
	req.CustomContractCalls = []types.ContractCall{{ToAddress: "0x2222222222222222222222222222222222222222", CallData: "0x01"}}

	// Act
	tr, err := squid.New(provider.Settings{BaseURL: srv.URL}).TransactionRequest(t.Context(), req)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, tr)
}

func TestTransactionRequest_MalformedAmount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"route": {"estimate": {"toAmount": "n/a"}, "transactionRequest": {"target": "0x1"}}}`))
	}))
	defer srv.Close()

	_, err := squid.New(provider.Settings{BaseURL: srv.URL}).TransactionRequest(t.Context(), swapRequest())
	require.ErrorIs(t, err, provider.ErrMalformedResponse)
}

func TestTransactionRequest_GasTotalOutOfRange(t *testing.T) {
	t.Parallel()

	// Arrange
	maxUint256 := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	body := strings.Replace(routeBody, `"amount": "2000"`, `"amount": "`+maxUint256+`"`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	// Act
	tr, err := squid.New(provider.Settings{BaseURL: srv.URL}).TransactionRequest(t.Context(), swapRequest())

	// Assert
	require.ErrorIs(t, err, provider.ErrMalformedResponse)
	require.Nil(t, tr)
}

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		want   types.Status
	}{
		{"success", "success", types.StatusSuccess},
		{"partial", "partial_success", types.StatusPartialSuccess},
		{"needs gas", "needs_gas", types.StatusNeedsGas},
		{"ongoing", "ongoing", types.StatusOngoing},
		{"refund", "refund", types.StatusFailed},
		{"not found", "not_found", types.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/status", r.URL.Path)
				assert.Equal(t, "0xabc", r.URL.Query().Get("transactionId"))
				assert.Equal(t, "42161", r.URL.Query().Get("toChainId"))
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":                     "0xabc",
					"status":                 "destination_executed",
					"squidTransactionStatus": tt.status,
					"fromChain":              map[string]string{"transactionId": "0xabc"},
					"toChain":                map[string]string{"transactionId": "0xdef"},
				})
			}))
			defer srv.Close()

			res, err := squid.New(provider.Settings{BaseURL: srv.URL}).Status(t.Context(), types.StatusQuery{
				TxHash:      "0xabc",
				FromChainID: 10,
				ToChainID:   42161,
			})

			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, "0xdef", res.ReceivingTx)
		})
	}
}
