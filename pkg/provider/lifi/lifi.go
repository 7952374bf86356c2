// Package lifi is the LI.FI bridge and DEX aggregator adapter.
package lifi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the public LI.FI API
	DefaultBaseURL = "https://li.quest/v1"
	// APIKeyEnv names the credential
	APIKeyEnv = "LIFI_API_KEY"

	defaultIntegrator   = "astrolab"
	defaultCallGasLimit = "10000"
)

// networkByID maps chain ids to LI.FI chain keys
var networkByID = map[int64]string{
	1:          "eth",
	10:         "opt",
	25:         "cro",
	56:         "bsc",
	66:         "okt",
	100:        "dai",
	106:        "vel",
	122:        "fus",
	137:        "pol",
	250:        "ftm",
	288:        "bob",
	324:        "era",
	1101:       "pze",
	1284:       "moo",
	1285:       "mor",
	8453:       "bas",
	59144:      "lna",
	42161:      "arb",
	42220:      "cel",
	43114:      "ava",
	1313161554: "aur",
}

var routers = provider.UniformRouterTable("0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE",
	1, 10, 25, 56, 66, 100, 106, 122, 137, 250, 288, 324, 1101, 1284, 1285, 8453, 59144, 42161, 42220, 43114, 1313161554)

// Client queries the LI.FI API
type Client struct {
	http       *httpx.Client
	apiKey     string
	integrator string
	log        *logrus.Entry
}

// New creates a LI.FI adapter
func New(s provider.Settings) *Client {
	return &Client{
		http:       httpx.New(httpx.FromSettings(s, DefaultBaseURL, map[string]string{"x-lifi-api-key": s.APIKey})),
		apiKey:     s.APIKey,
		integrator: s.IntegratorOr(defaultIntegrator),
		log:        s.Log(string(types.LiFi)),
	}
}

// ID implements provider.Provider
func (c *Client) ID() types.ProviderID { return types.LiFi }

// Capabilities implements provider.Provider
func (c *Client) Capabilities() provider.Capabilities {
	return provider.Capabilities{CrossChain: true, ContractCalls: true}
}

// Routers implements provider.Provider
func (c *Client) Routers() provider.RouterTable { return routers }

// Network returns the LI.FI chain key, falling back to the numeric id
func Network(chainID int64) string {
	if key, ok := networkByID[chainID]; ok {
		return key
	}
	return strconv.FormatInt(chainID, 10)
}

func (c *Client) quoteParams(req *types.SwapRequest) QuoteParams {
	slippage := float64(req.MaxSlippage) / 10_000
	p := QuoteParams{
		FromChain:            Network(req.InputChainID),
		ToChain:              Network(req.DestChainID()),
		FromToken:            req.Input,
		ToToken:              req.Output,
		FromAmount:           req.AmountWei,
		FromAddress:          req.Sender(),
		ToAddress:            req.Recipient(),
		Order:                "RECOMMENDED",
		Slippage:             slippage,
		MaxPriceImpact:       slippage * 2,
		Integrator:           req.Project,
		Referrer:             req.Referrer,
		AllowDestinationCall: true,
		DenyBridges:          req.DenyBridges,
		DenyExchanges:        req.DenyExchanges,
	}
	if p.Integrator == "" {
		p.Integrator = c.integrator
	}
	if req.HasContractCalls() {
		call := req.CustomContractCalls[0]
		gasLimit := call.GasLimit
		if gasLimit == "" {
			gasLimit = defaultCallGasLimit
		}
		p.ToAmount = req.AmountWei
		p.ContractCalls = []ContractCall{{
			FromAmount:         req.AmountWei,
			FromTokenAddress:   req.Output,
			ToContractAddress:  call.ToAddress,
			ToContractCallData: call.CallData,
			ToContractGasLimit: gasLimit,
		}}
	}
	return p
}

// Quote fetches the best LI.FI step for req, using the contract calls
// endpoint when req carries post-swap calls
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*Quote, error) {
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		provider.WarnMissingKey(c.log, APIKeyEnv)
	}

	params := c.quoteParams(req)
	var quote Quote
	var err error
	if req.HasContractCalls() {
		err = c.http.Post(ctx, "/quote/contractCalls", nil, params, &quote)
	} else {
		err = c.http.Get(ctx, "/quote", params.Values(), &quote)
	}
	if err != nil {
		return nil, fmt.Errorf("lifi: quote: %w", err)
	}
	return &quote, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	quote, err := c.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if quote.TransactionRequest == nil || quote.TransactionRequest.Data == "" {
		return nil, nil
	}

	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("lifi: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(quote.Estimate.ToAmount.String())
	if err != nil {
		return nil, fmt.Errorf("lifi: %w: estimate.toAmount: %v", provider.ErrMalformedResponse, err)
	}

	steps, gasUSD, gasWei, feeUSD, feeWei, err := parseSteps(quote.IncludedSteps)
	if err != nil {
		return nil, fmt.Errorf("lifi: %w: %v", provider.ErrMalformedResponse, err)
	}
	tx := quote.TransactionRequest
	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:     tx.From,
			To:       tx.To,
			Data:     tx.Data,
			Value:    estimate.Quantity(tx.Value.String()),
			GasLimit: estimate.Quantity(tx.GasLimit.String()),
			GasPrice: estimate.Quantity(tx.GasPrice.String()),
			ChainID:  int64(tx.ChainID.Int()),
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   quote.Action.FromToken.Decimals,
			OutputDecimals:  quote.Action.ToToken.Decimals,
			Steps:           steps,
			GasCostUSD:      gasUSD,
			GasCostWei:      gasWei,
			FeeCostUSD:      feeUSD,
			FeeCostWei:      feeWei,
			ApprovalAddress: quote.Estimate.ApprovalAddress,
		}),
	}, nil
}

// Status implements provider.StatusChecker
func (c *Client) Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error) {
	if q.TxHash == "" {
		return nil, nil
	}
	query := url.Values{"txHash": {q.TxHash}}
	if q.Bridge != "" {
		query.Set("bridge", q.Bridge)
	}
	if q.FromChainID != 0 {
		query.Set("fromChain", Network(q.FromChainID))
	}
	if q.ToChainID != 0 {
		query.Set("toChain", Network(q.ToChainID))
	}

	var status TransactionStatus
	if err := c.http.Get(ctx, "/status", query, &status); err != nil {
		return nil, fmt.Errorf("lifi: status: %w", err)
	}
	return status.toResponse(), nil
}

func (s TransactionStatus) toResponse() *types.StatusResponse {
	return &types.StatusResponse{
		ID:               s.TransactionID,
		Status:           mapStatus(s.Status),
		TxHash:           s.Receiving.TxHash,
		SendingTx:        s.Sending.TxHash,
		ReceivingTx:      s.Receiving.TxHash,
		Substatus:        s.Substatus,
		SubstatusMessage: s.SubstatusMessage,
	}
}

func mapStatus(s string) types.Status {
	switch s {
	case "DONE":
		return types.StatusDone
	case "PENDING":
		return types.StatusPending
	case "FAILED", "INVALID":
		return types.StatusFailed
	default:
		return types.StatusNotFound
	}
}
