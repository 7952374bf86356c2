package oneinch_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/oneinch"
	"meta-swap/pkg/types"
)

func swapRequest() *types.SwapRequest {
	return &types.SwapRequest{
		Input:        "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
		InputChainID: 10,
		Output:       "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1",
		AmountWei:    "2000000",
		Payer:        "0xC373f2C4efFD31626c79eFCd891aA7759cF61886",
		MaxSlippage:  10_000,
	}
}

func TestTransactionRequest(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/10/swap", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "50", r.URL.Query().Get("slippage"))
		assert.Equal(t, "true", r.URL.Query().Get("includeTokensInfo"))
		_, _ = w.Write([]byte(`{
			"fromToken": {"symbol": "USDC", "decimals": 6},
			"toToken": {"symbol": "DAI", "decimals": 18},
			"toAmount": "1990000000000000000",
			"tx": {"to": "0x1111111254eeb25477b68fb85ed929f73a960582", "data": "0x12aa3caf",
			       "value": "0", "gas": 210000, "gasPrice": "1000000"}
		}`))
	}))
	defer srv.Close()

	client := oneinch.New(provider.Settings{APIKey: "k", BaseURL: srv.URL}, nil)

	// Act
	tr, err := client.TransactionRequest(t.Context(), swapRequest())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "0x12aa3caf", tr.Data)
	assert.Equal(t, "420000", tr.GasLimit)
	assert.Equal(t, "0xC373f2C4efFD31626c79eFCd891aA7759cF61886", tr.From)
	assert.InDelta(t, 0.995, tr.EstimatedExchangeRate, 1e-9)
	assert.Equal(t, tr.To, tr.ApprovalAddress)
}

func TestTransactionRequest_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := oneinch.New(provider.Settings{BaseURL: "http://127.0.0.1:1"}, nil).TransactionRequest(t.Context(), swapRequest())
	require.ErrorIs(t, err, provider.ErrProviderUnavailable)
}

func TestTransactionRequest_CrossChainIsAbsent(t *testing.T) {
	t.Parallel()

	req := swapRequest()
	req.OutputChainID = 137

	tr, err := oneinch.New(provider.Settings{APIKey: "k", BaseURL: "http://127.0.0.1:1"}, nil).TransactionRequest(t.Context(), req)
	require.NoError(t, err)
	require.Nil(t, tr)
}
