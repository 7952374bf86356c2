// Package socket is the Socket (Bungee) bridge aggregator adapter.
package socket

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the Socket v2 API
	DefaultBaseURL = "https://api.socket.tech/v2"
	// APIKeyEnv names the credential, required by Socket
	APIKeyEnv = "SOCKET_API_KEY"
)

const (
	gateway      = "0x3a23F943181408EAC424116Af7b7790c94Cb97a5"
	gatewayZkEVM = "0xaDdE7028e7ec226777e5dea5D53F6457C21ec7D6"
)

var routers = provider.NewRouterTable(map[int64]string{
	1:          gateway,
	10:         gateway,
	56:         gateway,
	100:        gateway,
	122:        gateway,
	137:        gateway,
	250:        gateway,
	324:        gatewayZkEVM,
	1101:       gateway,
	8453:       gateway,
	59144:      gateway,
	42161:      gateway,
	42220:      gateway,
	43114:      gateway,
	1313161554: gateway,
})

// Client queries the Socket API
type Client struct {
	http   *httpx.Client
	apiKey string
	log    *logrus.Entry
}

// New creates a Socket adapter
func New(s provider.Settings) *Client {
	return &Client{
		http:   httpx.New(httpx.FromSettings(s, DefaultBaseURL, map[string]string{"API-KEY": s.APIKey})),
		apiKey: s.APIKey,
		log:    s.Log(string(types.Socket)),
	}
}

func (c *Client) ID() types.ProviderID { return types.Socket }

// Capabilities implements provider.Provider. Destination calls are not supported.
func (c *Client) Capabilities() provider.Capabilities {
	return provider.Capabilities{CrossChain: true}
}

func (c *Client) Routers() provider.RouterTable { return routers }

// slippage is the percentage Socket applies to both bridge and swap legs
func slippage(bps int) int {
	return min(int(math.Round(float64(bps)/100)), 1)
}

func quoteParams(req *types.SwapRequest) url.Values {
	s := strconv.Itoa(slippage(req.MaxSlippage))
	return url.Values{
		"fromChainId":           {strconv.FormatInt(req.InputChainID, 10)},
		"toChainId":             {strconv.FormatInt(req.DestChainID(), 10)},
		"fromTokenAddress":      {req.Input},
		"toTokenAddress":        {req.Output},
		"fromAmount":            {req.AmountWei},
		"userAddress":           {req.Sender()},
		"recipient":             {req.Recipient()},
		"singleTxOnly":          {"true"},
		"uniqueRoutesPerBridge": {"true"},
		"disableSwapping":       {"false"},
		"sort":                  {"output"},
		"maxUserTxs":            {"14"},
		"bridgeWithGas":         {"false"},
		"bridgeWithInsurance":   {"false"},
		"isContractCall":        {"true"},
		"defaultBridgeSlippage": {s},
		"defaultSwapSlippage":   {s},
	}
}

func (c *Client) checkKey() error {
	if c.apiKey == "" {
		return fmt.Errorf("socket: %w: missing %s", provider.ErrProviderUnavailable, APIKeyEnv)
	}
	return nil
}

// Quote lists the routes sorted by output
func (c *Client) Quote(ctx context.Context, req *types.SwapRequest) (*Quote, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}
	if err := provider.Validate(req); err != nil {
		return nil, err
	}

	var res envelope[Quote]
	if err := c.http.Get(ctx, "/quote", quoteParams(req), &res); err != nil {
		return nil, fmt.Errorf("socket: quote: %w", err)
	}
	return &res.Result, nil
}

// Build turns a quoted route into a transaction
func (c *Client) Build(ctx context.Context, route *Route) (*BuildTx, error) {
	var res envelope[BuildTx]
	if err := c.http.Post(ctx, "/build-tx", nil, map[string]any{"route": route}, &res); err != nil {
		return nil, fmt.Errorf("socket: build-tx: %w", err)
	}
	return &res.Result, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.HasContractCalls() {
		return nil, nil
	}
	quote, err := c.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(quote.Routes) == 0 {
		return nil, nil
	}
	route := &quote.Routes[0]

	tx, err := c.Build(ctx, route)
	if err != nil {
		return nil, err
	}
	if tx.TxData == "" {
		return nil, fmt.Errorf("socket: %w: empty txData", provider.ErrMalformedResponse)
	}

	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	outputAmount, err := estimate.ParseAmount(route.ToAmount.String())
	if err != nil {
		return nil, fmt.Errorf("socket: %w: routes[0].toAmount: %v", provider.ErrMalformedResponse, err)
	}

	approval := tx.TxTarget
	if tx.ApprovalData != nil && tx.ApprovalData.AllowanceTarget != "" {
		approval = tx.ApprovalData.AllowanceTarget
	}

	return &types.TransactionRequestWithEstimate{
		TransactionRequest: types.TransactionRequest{
			From:    req.Payer,
			To:      tx.TxTarget,
			Data:    tx.TxData,
			Value:   estimate.Quantity(tx.Value.String()),
			ChainID: req.InputChainID,
		},
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:     inputAmount,
			OutputAmount:    outputAmount,
			InputDecimals:   quote.FromAsset.Decimals.Int(),
			OutputDecimals:  quote.ToAsset.Decimals.Int(),
			Steps:           route.steps(quote),
			GasCostUSD:      route.TotalGasFeesInUSD.Float(),
			ApprovalAddress: approval,
		}),
	}, nil
}

// Status implements provider.StatusChecker
func (c *Client) Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error) {
	if q.TxHash == "" || c.apiKey == "" {
		return nil, nil
	}
	query := url.Values{
		"transactionHash": {q.TxHash},
		"fromChainId":     {strconv.FormatInt(q.FromChainID, 10)},
		"toChainId":       {strconv.FormatInt(q.ToChainID, 10)},
	}
	if q.Bridge != "" {
		query.Set("bridgeName", q.Bridge)
	}

	var res envelope[StatusData]
	if err := c.http.Get(ctx, "/status", query, &res); err != nil {
		return nil, fmt.Errorf("socket: status: %w", err)
	}
	s := res.Result
	return &types.StatusResponse{
		ID:          s.SourceTx,
		Status:      mapStatus(s.DestinationTxStatus),
		TxHash:      s.DestinationTransactionHash,
		SendingTx:   s.SourceTx,
		ReceivingTx: s.DestinationTransactionHash,
		Substatus:   s.SourceTxStatus,
	}, nil
}

func mapStatus(s string) types.Status {
	switch s {
	case "COMPLETED":
		return types.StatusDone
	case "PENDING":
		return types.StatusPending
	case "FAILED":
		return types.StatusFailed
	default:
		return types.StatusNotFound
	}
}
