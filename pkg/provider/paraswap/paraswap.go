// Package paraswap is the ParaSwap aggregator adapter (same-chain swaps only).
package paraswap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the ParaSwap API
	DefaultBaseURL = "https://api.paraswap.io"
	// APIKeyEnv names the optional credential
	APIKeyEnv = "PARASWAP_API_KEY"

	defaultPartner = "astrolab"
	deadline       = 5 * time.Minute
)

var routers = provider.UniformRouterTable("0xDEF171Fe48CF0115B1d80b88dc8eAB59176FEe57",
	1, 10, 56, 100, 137, 250, 324, 1101, 8217, 8453, 42161, 43114)

// Client queries the ParaSwap API
type Client struct {
	http   *httpx.Client
	apiKey string
	log    *logrus.Entry
	now    func() time.Time
}

// New creates a ParaSwap adapter
func New(s provider.Settings) *Client {
	return &Client{
		http:   httpx.New(httpx.FromSettings(s, DefaultBaseURL, map[string]string{"X-API-KEY": s.APIKey})),
		apiKey: s.APIKey,
		log:    s.Log(string(types.ParaSwap)),
		now:    time.Now,
	}
}

func (c *Client) ID() types.ProviderID { return types.ParaSwap }

func (c *Client) Capabilities() provider.Capabilities { return provider.Capabilities{} }

func (c *Client) Routers() provider.RouterTable { return routers }

func partner(req *types.SwapRequest) string {
	if req.Project != "" {
		return req.Project
	}
	return defaultPartner
}

// Quote fetches the best price route
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*PriceRoute, error) {
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		provider.WarnMissingKey(c.log, APIKeyEnv)
	}

	query := url.Values{
		"srcToken":            {req.Input},
		"destToken":           {req.Output},
		"amount":              {req.AmountWei},
		"side":                {"SELL"},
		"network":             {strconv.FormatInt(req.InputChainID, 10)},
		"userAddress":         {req.Recipient()},
		"partner":             {partner(req)},
		"otherExchangePrices": {"true"},
	}
	var res pricesResponse
	if err := c.http.Get(ctx, "/prices", query, &res); err != nil {
		return nil, fmt.Errorf("paraswap: prices: %w", err)
	}
	return res.PriceRoute, nil
}

// Build encodes the swap of a price route
func (c *Client) Build(ctx context.Context, req *types.SwapRequest, route *PriceRoute) (*Transaction, error) {
	body := transactionRequest{
		SrcToken:    req.Input,
		DestToken:   req.Output,
		SrcAmount:   req.AmountWei,
		Slippage:    req.MaxSlippage,
		UserAddress: req.Payer,
		Receiver:    req.Recipient(),
		Partner:     partner(req),
		PriceRoute:  route,
		Deadline:    req.Deadline,
	}
	if body.Deadline == 0 {
		body.Deadline = c.now().Add(deadline).Unix()
	}
	query := url.Values{"ignoreChecks": {"true"}, "ignoreGasEstimate": {"true"}}

	var tx Transaction
	path := "/transactions/" + strconv.FormatInt(req.InputChainID, 10)
	if err := c.http.Post(ctx, path, query, body, &tx); err != nil {
		return nil, fmt.Errorf("paraswap: transactions: %w", err)
	}
	return &tx, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.NeedsCrossChainEndpoint() {
		return nil, nil
	}
	route, err := c.Quote(ctx, req)
	if err != nil || route == nil {
		return nil, err
	}
	tx, err := c.Build(ctx, req, route)
	if err != nil {
		return nil, err
	}
	if tx.Data == "" {
		return nil, fmt.Errorf("paraswap: %w: missing data", provider.ErrMalformedResponse)
	}

	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("paraswap: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(route.DestAmount.String())
	if err != nil {
		return nil, fmt.Errorf("paraswap: %w: destAmount: %v", provider.ErrMalformedResponse, err)
	}
	gasWei, _ := estimate.ParseAmount(route.GasCost.String())

	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:     tx.From,
			To:       tx.To,
			Data:     tx.Data,
			Value:    estimate.Quantity(tx.Value.String()),
			GasLimit: estimate.Quantity(tx.Gas.String()),
			GasPrice: estimate.Quantity(tx.GasPrice.String()),
			ChainID:  int64(tx.ChainID.Int()),
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   route.SrcDecimals,
			OutputDecimals:  route.DestDecimals,
			Steps:           route.steps(),
			GasCostUSD:      route.GasCostUSD.Float(),
			GasCostWei:      gasWei,
			ApprovalAddress: route.TokenTransferProxy,
		}),
	}, nil
}
