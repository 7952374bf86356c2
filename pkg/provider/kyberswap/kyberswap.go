// Package kyberswap is the KyberSwap aggregator adapter (same-chain swaps only).
package kyberswap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the KyberSwap aggregator API host
	DefaultBaseURL = "https://aggregator-api.kyberswap.com"
	// APIKeyEnv names the client id
	APIKeyEnv = "KYBERSWAP_API_KEY"

	defaultSource = "astrolab"
	deadline      = 5 * time.Minute
)

var networkByID = map[int64]string{
	1:          "ethereum",
	10:         "optimism",
	56:         "bsc",
	137:        "polygon",
	250:        "fantom",
	324:        "zksync",
	1101:       "polygon-zkevm",
	8453:       "base",
	42161:      "arbitrum",
	43114:      "avalanche",
	59144:      "linea",
	534352:     "scroll",
	1313161554: "aurora",
}

const metaAggregationRouter = "0x6131B5fae19EA4f9D964eAc0408E4408b66337b5"

var routers = func() provider.RouterTable {
	m := map[int64]string{324: "0x3F95eF3f2eAca871858dbE20A93c01daF6C2e923"}
	for _, id := range []int64{1, 10, 25, 56, 137, 250, 1101, 8217, 8453, 42161, 42220, 43114, 59144, 534352, 1313161554} {
		m[id] = metaAggregationRouter
	}
	return provider.NewRouterTable(m)
}()

// Client queries the KyberSwap aggregator
type Client struct {
	http     *httpx.Client
	apiKey   string
	decimals chain.DecimalsResolver
	log      *logrus.Entry
	now      func() time.Time
}

// New creates a KyberSwap adapter. Token decimals are read through decimals
// since the API does not report them.
func New(s provider.Settings, decimals chain.DecimalsResolver) *Client {
	return &Client{
		http:     httpx.New(httpx.FromSettings(s, DefaultBaseURL, nil)),
		apiKey:   s.APIKey,
		decimals: decimals,
		log:      s.Log(string(types.KyberSwap)),
		now:      time.Now,
	}
}

func (c *Client) ID() types.ProviderID { return types.KyberSwap }

func (c *Client) Capabilities() provider.Capabilities { return provider.Capabilities{} }

func (c *Client) Routers() provider.RouterTable { return routers }

// source identifies the integrator, doubling as client id
func (c *Client) source(req *types.SwapRequest) string {
	switch {
	case c.apiKey != "":
		return c.apiKey
	case req.Project != "":
		return req.Project
	default:
		return defaultSource
	}
}

func apiRoot(chainID int64) (string, bool) {
	slug, ok := networkByID[chainID]
	if !ok {
		return "", false
	}
	return "/" + slug + "/api/v1", true
}

// Quote fetches the best route summary, nil when the chain is not served
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*RouteSummary, error) {
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		provider.WarnMissingKey(c.log, APIKeyEnv)
	}
	root, ok := apiRoot(req.InputChainID)
	if !ok {
		return nil, nil
	}

	query := url.Values{
		"tokenIn":           {req.Input},
		"tokenOut":          {req.Output},
		"amountIn":          {req.AmountWei},
		"saveGas":           {"false"},
		"gasInclude":        {"true"},
		"slippageTolerance": {strconv.Itoa(req.MaxSlippage)},
		"source":            {c.source(req)},
	}
	var res response[routesData]
	if err := c.http.WithHeader("x-client-id", c.source(req)).Get(ctx, root+"/routes", query, &res); err != nil {
		return nil, fmt.Errorf("kyberswap: routes: %w", err)
	}
	return res.Data.RouteSummary, nil
}

// Build encodes the swap of a route summary
func (c *Client) Build(ctx context.Context, req *types.SwapRequest, summary *RouteSummary) (*BuildData, error) {
	root, ok := apiRoot(req.InputChainID)
	if !ok {
		return nil, nil
	}
	body := buildRequest{
		RouteSummary:      summary,
		Sender:            req.Payer,
		Recipient:         req.Recipient(),
		Source:            c.source(req),
		SkipSimulateTx:    true,
		SlippageTolerance: req.MaxSlippage,
		Deadline:          req.Deadline,
	}
	if body.Deadline == 0 {
		body.Deadline = c.now().Add(deadline).Unix()
	}
	var res response[BuildData]
	if err := c.http.WithHeader("x-client-id", c.source(req)).Post(ctx, root+"/route/build", nil, body, &res); err != nil {
		return nil, fmt.Errorf("kyberswap: build: %w", err)
	}
	return &res.Data, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.NeedsCrossChainEndpoint() {
		return nil, nil
	}
	summary, err := c.Quote(ctx, req)
	if err != nil || summary == nil {
		return nil, err
	}
	build, err := c.Build(ctx, req, summary)
	if err != nil || build == nil {
		return nil, err
	}
	if build.Data == "" {
		return nil, fmt.Errorf("kyberswap: %w: empty data", provider.ErrMalformedResponse)
	}

	inDec, outDec, err := chain.PairDecimals(ctx, c.decimals, req.InputChainID, req.Input, req.Output)
	if err != nil {
		return nil, fmt.Errorf("kyberswap: decimals: %w", err)
	}
	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("kyberswap: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(summary.AmountOut.String())
	if err != nil {
		return nil, fmt.Errorf("kyberswap: %w: amountOut: %v", provider.ErrMalformedResponse, err)
	}

	value := "0"
	if chain.IsNative(req.Input) {
		value = inputAmount.String()
	}

	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:     req.Payer,
			To:       build.RouterAddress,
			Data:     build.Data,
			Value:    value,
			GasLimit: estimate.Double(build.Gas.String()),
			ChainID:  req.InputChainID,
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   inDec,
			OutputDecimals:  outDec,
			GasCostUSD:      summary.GasUSD.Float(),
			ApprovalAddress: build.RouterAddress,
		}),
	}, nil
}
