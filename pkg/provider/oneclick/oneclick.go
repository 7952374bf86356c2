// Package oneclick is the NEAR Intents 1Click adapter.
//
// 1Click does not return a router call: solvers quote a deposit address and
// the swap starts once the input token is transferred to it. The built
// transaction is therefore an ERC20 transfer (or a native send) to that
// address.
package oneclick

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

const (
	// DefaultBaseURL is the 1Click API
	DefaultBaseURL = "https://1click.chaindefuser.com"
	// JWTEnv names the bearer token, optional but fee-free when set
	JWTEnv = "ONECLICK_JWT_TOKEN"

	quoteValidity = 24 * time.Hour
	tokensTTL     = 10 * time.Minute
)

var blockchains = map[int64]string{
	1:     "eth",
	10:    "op",
	56:    "bsc",
	100:   "gnosis",
	137:   "pol",
	8453:  "base",
	42161: "arb",
	43114: "avax",
}

// Blockchain returns the 1Click name of an EVM chain
func Blockchain(chainID int64) (string, bool) {
	name, ok := blockchains[chainID]
	return name, ok
}

// Asset is a token accepted by the solver network
type Asset struct {
	AssetID         string `json:"assetId"`
	Symbol          string `json:"symbol"`
	Blockchain      string `json:"blockchain"`
	ContractAddress string `json:"contractAddress,omitempty"`
	Decimals        int    `json:"decimals"`
}

// QuoteInput is an exact-input quote request
type QuoteInput struct {
	OriginAsset      string
	DestinationAsset string
	Amount           string
	SlippageBps      int
	RefundTo         string
	Recipient        string
	Deadline         time.Time
	Dry              bool
}

// Deposit is a committed quote
type Deposit struct {
	Address            string
	AmountInFormatted  string
	AmountOutFormatted string
	TimeEstimate       float64
}

// Execution is the progress of a swap behind a deposit address
type Execution struct {
	Status              string
	OriginTxHashes      []string
	DestinationTxHashes []string
	UpdatedAt           time.Time
}

// Backend is the part of the 1Click API used by the adapter
type Backend interface {
	Tokens(ctx context.Context) ([]Asset, error)
	Quote(ctx context.Context, in QuoteInput) (*Deposit, error)
	ExecutionStatus(ctx context.Context, depositAddress string) (*Execution, error)
	SubmitDeposit(ctx context.Context, depositAddress, txHash string) error
}

// Client quotes swaps through 1Click
type Client struct {
	backend Backend
	jwt     string
	log     *logrus.Entry
	now     func() time.Time

	mu        sync.Mutex
	assets    []Asset
	fetchedAt time.Time
}

// New creates a 1Click adapter on the SDK backend
func New(s provider.Settings) *Client {
	return NewWithBackend(s, NewSDKBackend(s))
}

// NewWithBackend creates a 1Click adapter on b
func NewWithBackend(s provider.Settings, b Backend) *Client {
	return &Client{
		backend: b,
		jwt:     s.APIKey,
		log:     s.Log(string(types.OneClick)),
		now:     time.Now,
	}
}

func (c *Client) ID() types.ProviderID { return types.OneClick }

func (c *Client) Capabilities() provider.Capabilities {
	return provider.Capabilities{CrossChain: true}
}

// Routers is empty: deposits go to a fresh address per quote
func (c *Client) Routers() provider.RouterTable { return provider.NewRouterTable(nil) }

// Tokens returns the supported assets, cached for a few minutes
func (c *Client) Tokens(ctx context.Context) ([]Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.assets != nil && c.now().Sub(c.fetchedAt) < tokensTTL {
		return c.assets, nil
	}
	assets, err := c.backend.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	c.assets = assets
	c.fetchedAt = c.now()
	return assets, nil
}

// FindAsset looks a token up by chain and address. The native token is
// the asset of the chain without a contract address.
func (c *Client) FindAsset(ctx context.Context, chainID int64, token string) (*Asset, error) {
	name, ok := Blockchain(chainID)
	if !ok {
		return nil, nil
	}
	assets, err := c.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	native := chain.IsNative(token)
	for i := range assets {
		a := &assets[i]
		if !strings.EqualFold(a.Blockchain, name) {
			continue
		}
		if native && a.ContractAddress == "" {
			return a, nil
		}
		if !native && strings.EqualFold(a.ContractAddress, token) {
			return a, nil
		}
	}
	return nil, nil
}

// TransactionRequest implements provider.Provider
func (c *Client) TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error) {
	if req != nil && req.HasContractCalls() {
		return nil, nil
	}
	if err := provider.Validate(req); err != nil {
		return nil, err
	}
	if c.jwt == "" {
		provider.WarnMissingKey(c.log, JWTEnv)
	}

	in, err := c.FindAsset(ctx, req.InputChainID, req.Input)
	if err != nil {
		return nil, fmt.Errorf("oneclick: tokens: %w", err)
	}
	out, err := c.FindAsset(ctx, req.DestChainID(), req.Output)
	if err != nil {
		return nil, fmt.Errorf("oneclick: tokens: %w", err)
	}
	if in == nil || out == nil {
		c.log.Debugf("no asset for %s", req)
		return nil, nil
	}

	deadline := c.now().Add(quoteValidity)
	if req.Deadline > 0 {
		deadline = time.Unix(req.Deadline, 0)
	}
	dep, err := c.backend.Quote(ctx, QuoteInput{
		OriginAsset:      in.AssetID,
		DestinationAsset: out.AssetID,
		Amount:           req.AmountWei,
		SlippageBps:      req.MaxSlippage,
		RefundTo:         req.Sender(),
		Recipient:        req.Recipient(),
		Deadline:         deadline,
	})
	if err != nil {
		return nil, fmt.Errorf("oneclick: quote: %w", err)
	}
	if dep == nil || dep.Address == "" {
		return nil, fmt.Errorf("oneclick: %w: missing depositAddress", provider.ErrMalformedResponse)
	}

	inputAmount, err := estimate.ParseAmount(req.AmountWei)
	if err != nil {
		return nil, fmt.Errorf("oneclick: %w", err)
	}
	outputAmount, err := estimate.ParseUnits(dep.AmountOutFormatted, out.Decimals)
	if err != nil {
		return nil, fmt.Errorf("oneclick: %w: amountOutFormatted: %v", provider.ErrMalformedResponse, err)
	}

	tx, err := depositTransaction(req, dep.Address, inputAmount.BigInt())
	if err != nil {
		return nil, fmt.Errorf("oneclick: %w", err)
	}

	step := types.RouteStep{
		Type:        "cross",
		Description: fmt.Sprintf("deposit to %s", dep.Address),
		FromToken:   in.token(req.InputChainID),
		ToToken:     out.token(req.DestChainID()),
		FromAmount:  req.AmountWei,
		ToAmount:    outputAmount.String(),
		FromChain:   req.InputChainID,
		ToChain:     req.DestChainID(),
		FromAddress: req.Sender(),
		ToAddress:   req.Recipient(),
		Tool:        "1click",
		ToolDetails: &types.ToolDetails{Key: "1click", Name: "NEAR Intents"},
	}
	return &types.TransactionRequestWithEstimate{
		TransactionRequest: tx,
		Estimate: estimate.Normalize(estimate.Params{
			InputAmount:    inputAmount,
			OutputAmount:   outputAmount,
			InputDecimals:  in.Decimals,
			OutputDecimals: out.Decimals,
			Steps:          []types.RouteStep{step},
		}),
	}, nil
}

func depositTransaction(req *types.SwapRequest, depositAddress string, amount *big.Int) (types.TransactionRequest, error) {
	tx := types.TransactionRequest{
		From:    req.Sender(),
		ChainID: req.InputChainID,
	}
	if chain.IsNative(req.Input) {
		tx.To = depositAddress
		tx.Data = "0x"
		tx.Value = amount.String()
		return tx, nil
	}
	data, err := chain.TransferCallData(depositAddress, amount)
	if err != nil {
		return tx, err
	}
	tx.To = req.Input
	tx.Data = data
	tx.Value = "0"
	return tx, nil
}

func (a *Asset) token(chainID int64) *types.Token {
	address := a.ContractAddress
	if address == "" {
		address = chain.NativeToken
	}
	return &types.Token{
		ChainID:  fmt.Sprint(chainID),
		Address:  address,
		Symbol:   a.Symbol,
		Decimals: a.Decimals,
	}
}

// Status implements provider.StatusChecker, keyed by deposit address
func (c *Client) Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error) {
	if q.DepositAddress == "" {
		return nil, nil
	}
	ex, err := c.backend.ExecutionStatus(ctx, q.DepositAddress)
	if err != nil {
		return nil, fmt.Errorf("oneclick: status: %w", err)
	}

	res := &types.StatusResponse{
		ID:        q.DepositAddress,
		Status:    mapStatus(ex.Status),
		TxHash:    q.TxHash,
		Substatus: ex.Status,
	}
	if len(ex.OriginTxHashes) > 0 {
		res.SendingTx = ex.OriginTxHashes[0]
	}
	if len(ex.DestinationTxHashes) > 0 {
		res.ReceivingTx = ex.DestinationTxHashes[0]
	}
	return res, nil
}

// SubmitDeposit tells the solvers which transaction funded a deposit
// address, which speeds up detection
func (c *Client) SubmitDeposit(ctx context.Context, depositAddress, txHash string) error {
	if err := c.backend.SubmitDeposit(ctx, depositAddress, txHash); err != nil {
		return fmt.Errorf("oneclick: submit deposit: %w", err)
	}
	return nil
}

func mapStatus(s string) types.Status {
	switch strings.ToUpper(s) {
	case "PENDING_DEPOSIT":
		return types.StatusWaiting
	case "KNOWN_DEPOSIT_TX", "INCOMPLETE_DEPOSIT":
		return types.StatusPending
	case "PROCESSING":
		return types.StatusOngoing
	case "SUCCESS":
		return types.StatusSuccess
	case "REFUNDED", "FAILED":
		return types.StatusFailed
	default:
		return types.StatusNotFound
	}
}
