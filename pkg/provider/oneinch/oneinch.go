// Package oneinch is the 1inch swap API adapter (same-chain swaps only).
package oneinch

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the 1inch swap API
	DefaultBaseURL = "https://api.1inch.dev/swap/v5.2"
	// APIKeyEnv names the credential, required by 1inch
	APIKeyEnv = "ONE_INCH_API_KEY"
)

const aggregationRouter = "0x1111111254eeb25477b68fb85ed929f73a960582"

var routers = func() provider.RouterTable {
	m := map[int64]string{324: "0x6e2b76966cbd9cf4cc2fa0d76d24d5241e0abc2f"}
	for _, id := range []int64{1, 10, 56, 100, 137, 250, 8217, 8453, 42161, 43114, 1313161554} {
		m[id] = aggregationRouter
	}
	return provider.NewRouterTable(m)
}()

// Client queries the 1inch swap API
type Client struct {
	http     *httpx.Client
	apiKey   string
	decimals chain.DecimalsResolver
	log      *logrus.Entry
}

// New creates a 1inch adapter. decimals is used when the answer lacks token info.
func New(s provider.Settings, decimals chain.DecimalsResolver) *Client {
	auth := ""
	if s.APIKey != "" {
		auth = "Bearer " + s.APIKey
	}
	return &Client{
		http:     httpx.New(httpx.FromSettings(s, DefaultBaseURL, map[string]string{"Authorization": auth})),
		apiKey:   s.APIKey,
		decimals: decimals,
		log:      s.Log(string(types.OneInch)),
	}
}

func (c *Client) ID() types.ProviderID { return types.OneInch }

func (c *Client) Capabilities() provider.Capabilities { return provider.Capabilities{} }

func (c *Client) Routers() provider.RouterTable { return routers }

// slippage converts bps to the whole percentage 1inch accepts, within [1, 50]
func slippage(bps int) int {
	return max(min(int(math.Round(float64(bps)/100)), 50), 1)
}

// Quote requests a swap, transaction included
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*Swap, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("oneinch: %w: missing %s", provider.ErrProviderUnavailable, APIKeyEnv)
	}
	if err := provider.Validate(req); err != nil {
		return nil, err
	}

	from := req.Payer
	if from == "" {
		from = req.TestPayer
	}
	query := url.Values{
		"src":               {req.Input},
		"dst":               {req.Output},
		"amount":            {req.AmountWei},
		"from":              {from},
		"slippage":          {strconv.Itoa(slippage(req.MaxSlippage))},
		"disableEstimate":   {"true"},
		"includeGas":        {"true"},
		"includeTokensInfo": {"true"},
		"compatibility":     {"false"},
	}
	if req.Receiver != "" {
		query.Set("receiver", req.Receiver)
	}

	var swap Swap
	path := "/" + strconv.FormatInt(req.InputChainID, 10) + "/swap"
	if err := c.http.Get(ctx, path, query, &swap); err != nil {
		return nil, fmt.Errorf("oneinch: swap: %w", err)
	}
	return &swap, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.NeedsCrossChainEndpoint() {
		return nil, nil
	}
	swap, err := c.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if swap.Tx.Data == "" {
		return nil, fmt.Errorf("oneinch: %w: missing tx.data", provider.ErrMalformedResponse)
	}

	inDec, outDec, err := c.tokenDecimals(ctx, req, swap)
	if err != nil {
		return nil, fmt.Errorf("oneinch: decimals: %w", err)
	}
	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("oneinch: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(swap.ToAmount.String())
	if err != nil {
		return nil, fmt.Errorf("oneinch: %w: toAmount: %v", provider.ErrMalformedResponse, err)
	}

	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:     req.Payer,
			To:       swap.Tx.To,
			Data:     swap.Tx.Data,
			Value:    estimate.Quantity(swap.Tx.Value.String()),
			GasLimit: estimate.Double(swap.Tx.Gas.String()),
			GasPrice: estimate.Quantity(swap.Tx.GasPrice.String()),
			ChainID:  req.InputChainID,
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   inDec,
			OutputDecimals:  outDec,
			ApprovalAddress: swap.Tx.To,
		}),
	}, nil
}

func (c *Client) tokenDecimals(ctx context.Context, req *types.SwapRequest, swap *Swap) (int, int, error) {
	if swap.FromToken != nil && swap.ToToken != nil {
		return swap.FromToken.Decimals, swap.ToToken.Decimals, nil
	}
	return chain.PairDecimals(ctx, c.decimals, req.InputChainID, req.Input, req.Output)
}
