// Package zerox is the 0x swap API adapter (same-chain swaps only).
package zerox

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

// APIKeyEnv names the credential, required by 0x
const APIKeyEnv = "ZERO_X_API_KEY"

// hostPrefix selects the per-chain 0x API host
var hostPrefix = map[int64]string{
	1:     "",
	10:    "optimism.",
	56:    "bsc.",
	137:   "polygon.",
	250:   "fantom.",
	8453:  "base.",
	42220: "celo.",
	43114: "avalanche.",
	42161: "arbitrum.",
}

const exchangeProxy = "0xdef1c0ded9bec7f1a1670819833240f027b25eff"

var routers = provider.NewRouterTable(map[int64]string{
	1:     exchangeProxy,
	10:    "0xdef1abe32c034e558cdd535791643c58a13acc10",
	56:    exchangeProxy,
	137:   exchangeProxy,
	250:   "0xdef189deaef76e379df891899eb5a00a94cbc250",
	8217:  exchangeProxy,
	8453:  exchangeProxy,
	42161: exchangeProxy,
	42220: exchangeProxy,
	43114: exchangeProxy,
})

// Client queries the 0x swap API
type Client struct {
	http     *httpx.Client
	baseURL  string
	apiKey   string
	decimals chain.DecimalsResolver
	log      *logrus.Entry
}

// New creates a 0x adapter. The host depends on the chain unless s.BaseURL
// pins it.
func New(s provider.Settings, decimals chain.DecimalsResolver) *Client {
	return &Client{
		http:     httpx.New(httpx.FromSettings(s, "", map[string]string{"0x-api-key": s.APIKey})),
		baseURL:  s.BaseURL,
		apiKey:   s.APIKey,
		decimals: decimals,
		log:      s.Log(string(types.ZeroX)),
	}
}

func (c *Client) ID() types.ProviderID { return types.ZeroX }

func (c *Client) Capabilities() provider.Capabilities { return provider.Capabilities{} }

func (c *Client) Routers() provider.RouterTable { return routers }

func (c *Client) quoteURL(chainID int64) (string, bool) {
	if c.baseURL != "" {
		return c.baseURL + "/swap/v1/quote", true
	}
	prefix, ok := hostPrefix[chainID]
	if !ok {
		return "", false
	}
	return "https://" + prefix + "api.0x.org/swap/v1/quote", true
}

// Quote requests a firm quote, nil when the chain is not served
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*Quote, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("zerox: %w: missing %s", provider.ErrProviderUnavailable, APIKeyEnv)
	}
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	endpoint, ok := c.quoteURL(req.InputChainID)
	if !ok {
		return nil, nil
	}

	query := url.Values{
		"sellToken":          {req.Input},
		"buyToken":           {req.Output},
		"sellAmount":         {req.AmountWei},
		"slippagePercentage": {strconv.FormatFloat(float64(req.MaxSlippage)/10_000, 'f', -1, 64)},
		"takerAddress":       {req.Recipient()},
		"skipValidation":     {"true"},
	}
	var q Quote
	if err := c.http.Get(ctx, endpoint, query, &q); err != nil {
		return nil, fmt.Errorf("zerox: quote: %w", err)
	}
	return &q, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.NeedsCrossChainEndpoint() {
		return nil, nil
	}
	q, err := c.Quote(ctx, req)
	if err != nil || q == nil {
		return nil, err
	}
	if q.Data == "" {
		return nil, fmt.Errorf("zerox: %w: missing quote.data", provider.ErrMalformedResponse)
	}

	inDec, outDec, err := chain.PairDecimals(ctx, c.decimals, req.InputChainID, req.Input, req.Output)
	if err != nil {
		return nil, fmt.Errorf("zerox: decimals: %w", err)
	}
	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("zerox: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(q.BuyAmount.String())
	if err != nil {
		return nil, fmt.Errorf("zerox: %w: buyAmount: %v", provider.ErrMalformedResponse, err)
	}

	approval := q.AllowanceTarget
	if approval == "" {
		approval = q.To
	}
	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:     req.Payer,
			To:       q.To,
			Data:     q.Data,
			Value:    estimate.Quantity(q.Value.String()),
			GasLimit: estimate.Double(q.Gas.String()),
			GasPrice: estimate.Quantity(q.GasPrice.String()),
			ChainID:  req.InputChainID,
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   inDec,
			OutputDecimals:  outDec,
			ApprovalAddress: approval,
		}),
	}, nil
}

// Quote is the answer of GET /swap/v1/quote
type Quote struct {
	Price           httpx.Number `json:"price"`
	GuaranteedPrice httpx.Number `json:"guaranteedPrice"`
	To              string       `json:"to"`
	Data            string       `json:"data"`
	Value           httpx.Number `json:"value"`
	Gas             httpx.Number `json:"gas"`
	GasPrice        httpx.Number `json:"gasPrice"`
	SellAmount      httpx.Number `json:"sellAmount"`
	BuyAmount       httpx.Number `json:"buyAmount"`
	AllowanceTarget string       `json:"allowanceTarget"`
}
