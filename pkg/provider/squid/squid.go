// Package squid is the Squid Router (Axelar) adapter.
package squid

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
	// DefaultBaseURL is the Squid v2 API
	DefaultBaseURL = "https://v2.api.squidrouter.com/v2"
	// APIKeyEnv names the credential
	APIKeyEnv = "SQUID_API_KEY"

	defaultIntegrator   = "astrolab-api"
	defaultHookGasLimit = "20000"
)

// Post hook call types
const (
	CallTypeDefault = iota
	CallTypeFullTokenBalance
	CallTypeFullNativeBalance
	CallTypeCollectTokenBalance
)

const chainTypeEVM = "evm"

var routers = provider.UniformRouterTable("0xce16F69375520ab01377ce7B88f5BA8C48F8D666",
	1, 10, 56, 137, 250, 314, 1284, 2222, 5000, 8453, 42161, 42220, 43114, 59144, 534352)

// Client queries the Squid API
type Client struct {
	http       *httpx.Client
	apiKey     string
	integrator string
	log        *logrus.Entry
}

// New creates a Squid adapter
func New(s provider.Settings) *Client {
	integrator := s.IntegratorOr(defaultIntegrator)
	return &Client{
		http: httpx.New(httpx.FromSettings(s, DefaultBaseURL, map[string]string{
			"x-integrator-id": integrator,
			"api-key":         s.APIKey,
		})),
		apiKey:     s.APIKey,
		integrator: integrator,
		log:        s.Log(string(types.Squid)),
	}
}

func (c *Client) ID() types.ProviderID { return types.Squid }

func (c *Client) Capabilities() provider.Capabilities {
	return provider.Capabilities{CrossChain: true, ContractCalls: true}
}

func (c *Client) Routers() provider.RouterTable { return routers }

func (c *Client) routeParams(req *types.SwapRequest) RouteParams {
	from := req.Payer
	if from == "" {
		from = req.TestPayer
	}
	p := RouteParams{
		FromChain:               strconv.FormatInt(req.InputChainID, 10),
		ToChain:                 strconv.FormatInt(req.DestChainID(), 10),
		FromToken:               req.Input,
		ToToken:                 req.Output,
		FromAmount:              req.AmountWei,
		FromAddress:             from,
		ToAddress:               req.Recipient(),
		Slippage:                float64(req.MaxSlippage) / 100,
		SlippageConfig:          SlippageConfig{AutoMode: 1},
		EnableBoost:             true,
		QuoteOnly:               false,
		ReceiveGasOnDestination: req.ReceiveGasOnDestination,
	}
	if req.HasContractCalls() {
		call := req.CustomContractCalls[0]
		gas := call.GasLimit
		if gas == "" {
			gas = defaultHookGasLimit
		}
		p.PostHook = &Hook{
			ChainType: chainTypeEVM,
			Calls: []HookCall{{
				ChainType:    chainTypeEVM,
				CallType:     CallTypeFullTokenBalance,
				Target:       call.ToAddress,
				Value:        "0",
				CallData:     call.CallData,
				Payload:      HookPayload{TokenAddress: req.Output, InputPos: 1},
				EstimatedGas: gas,
			}},
		}
	}
	return p
}

// Quote requests a route, transaction included
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*RouteResponse, error) {
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		provider.WarnMissingKey(c.log, APIKeyEnv)
	}

	var res RouteResponse
	if err := c.http.Post(ctx, "/route", nil, c.routeParams(req), &res); err != nil {
		return nil, fmt.Errorf("squid: route: %w", err)
	}
	return &res, nil
}

// TransactionRequest implements provider.Provider.
// Fee costs are paid in gas on Squid and count toward the gas total.
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	res, err := c.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	tx := res.Route.TransactionRequest
	if tx == nil {
		return nil, nil
	}

	to := tx.To
	if to == "" {
		to = tx.Target
	}
	if to == "" {
		to = tx.TargetAddress
	}

	est := res.Route.Estimate
	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("squid: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(est.ToAmount.String())
	if err != nil {
		return nil, fmt.Errorf("squid: %w: estimate.toAmount: %v", provider.ErrMalformedResponse, err)
	}

	gasCosts := commonCosts(est.GasCosts)
	feeCosts := commonCosts(est.FeeCosts)
	gasUSD, gasWei, err := estimate.SumCosts(append(append([]types.Cost{}, gasCosts...), feeCosts...))
	if err != nil {
		return nil, fmt.Errorf("squid: %w: gas costs: %v", provider.ErrMalformedResponse, err)
	}
	feeUSD, feeWei, err := estimate.SumCosts(feeCosts)
	if err != nil {
		return nil, fmt.Errorf("squid: %w: fee costs: %v", provider.ErrMalformedResponse, err)
	}

	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:                 req.Sender(),
			To:                   to,
			Data:                 tx.Data,
			Value:                estimate.Quantity(tx.Value.String()),
			GasLimit:             estimate.Quantity(tx.GasLimit.String()),
			GasPrice:             estimate.Quantity(tx.GasPrice.String()),
			MaxFeePerGas:         estimate.Quantity(tx.MaxFeePerGas.String()),
			MaxPriorityFeePerGas: estimate.Quantity(tx.MaxPriorityFeePerGas.String()),
			ChainID:              req.InputChainID,
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   est.FromToken.Decimals,
			OutputDecimals:  est.ToToken.Decimals,
			Steps:           parseSteps(est.Actions),
			GasCostUSD:      gasUSD,
			GasCostWei:      gasWei,
			FeeCostUSD:      feeUSD,
			FeeCostWei:      feeWei,
			ApprovalAddress: to,
		}),
	}, nil
}

// Status implements provider.StatusChecker
func (c *Client) Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error) {
	id := q.ID()
	if id == "" {
		return nil, nil
	}
	query := url.Values{"transactionId": {id}}
	if q.FromChainID != 0 {
		query.Set("fromChainId", strconv.FormatInt(q.FromChainID, 10))
	}
	if q.ToChainID != 0 {
		query.Set("toChainId", strconv.FormatInt(q.ToChainID, 10))
	}

	var status StatusResult
	if err := c.http.Get(ctx, "/status", query, &status); err != nil {
		return nil, fmt.Errorf("squid: status: %w", err)
	}
	return &types.StatusResponse{
		ID:               status.ID,
		Status:           mapStatus(status.SquidTransactionStatus),
		TxHash:           status.ToChain.TransactionID,
		SendingTx:        status.FromChain.TransactionID,
		ReceivingTx:      status.ToChain.TransactionID,
		Substatus:        status.Status,
		SubstatusMessage: status.SquidTransactionStatus,
	}, nil
}

func mapStatus(s string) types.Status {
	switch s {
	case "success":
		return types.StatusSuccess
	case "partial_success":
		return types.StatusPartialSuccess
	case "needs_gas":
		return types.StatusNeedsGas
	case "ongoing":
		return types.StatusOngoing
	case "refund", "refunded":
		return types.StatusFailed
	default:
		return types.StatusNotFound
	}
}
