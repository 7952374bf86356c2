package squid

import (
	"strconv"

	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

// SlippageConfig lets Squid pick the slippage when AutoMode is 1
type SlippageConfig struct {
	AutoMode int `json:"autoMode"`
}

// HookPayload tells the hook where to inject the received balance
type HookPayload struct {
	TokenAddress string `json:"tokenAddress"`
	InputPos     int    `json:"inputPos"`
}

// HookCall is one destination call of a post hook
type HookCall struct {
	ChainType    string      `json:"chainType"`
	CallType     int         `json:"callType"`
	Target       string      `json:"target"`
	Value        string      `json:"value"`
	CallData     string      `json:"callData"`
	Payload      HookPayload `json:"payload"`
	EstimatedGas string      `json:"estimatedGas"`
}

// Hook is executed on the destination chain after the swap
type Hook struct {
	ChainType string     `json:"chainType"`
	Calls     []HookCall `json:"calls"`
}

// RouteParams is the body of POST /route
type RouteParams struct {
	FromChain               string         `json:"fromChain"`
	ToChain                 string         `json:"toChain"`
	FromToken               string         `json:"fromToken"`
	ToToken                 string         `json:"toToken"`
	FromAmount              string         `json:"fromAmount"`
	FromAddress             string         `json:"fromAddress"`
	ToAddress               string         `json:"toAddress"`
	Slippage                float64        `json:"slippage"`
	SlippageConfig          SlippageConfig `json:"slippageConfig"`
	EnableBoost             bool           `json:"enableBoost"`
	QuoteOnly               bool           `json:"quoteOnly"`
	ReceiveGasOnDestination bool           `json:"receiveGasOnDestination"`
	PostHook                *Hook          `json:"postHook,omitempty"`
}

type token struct {
	ChainID  httpx.Number `json:"chainId"`
	Address  string       `json:"address"`
	Name     string       `json:"name"`
	Symbol   string       `json:"symbol"`
	Decimals int          `json:"decimals"`
	LogoURI  string       `json:"logoURI"`
	USDPrice httpx.Number `json:"usdPrice"`
}

func (t token) common() *types.Token {
	price := t.USDPrice.String()
	if price == "" {
		price = "0"
	}
	return &types.Token{
		ChainID:  t.ChainID.String(),
		Address:  t.Address,
		Name:     t.Name,
		Symbol:   t.Symbol,
		Decimals: t.Decimals,
		LogoURI:  t.LogoURI,
		PriceUSD: price,
	}
}

type cost struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Amount    httpx.Number `json:"amount"`
	AmountUSD httpx.Number `json:"amountUsd"`
	Token     *token       `json:"token"`
}

type action struct {
	Type        string       `json:"type"`
	Provider    string       `json:"provider"`
	Description string       `json:"description"`
	FromChain   httpx.Number `json:"fromChain"`
	ToChain     httpx.Number `json:"toChain"`
	FromToken   token        `json:"fromToken"`
	ToToken     token        `json:"toToken"`
	FromAmount  string       `json:"fromAmount"`
	ToAmount    string       `json:"toAmount"`
}

type routeEstimate struct {
	FromAmount string       `json:"fromAmount"`
	ToAmount   httpx.Number `json:"toAmount"`
	FromToken  token        `json:"fromToken"`
	ToToken    token        `json:"toToken"`
	Actions    []action     `json:"actions"`
	GasCosts   []cost       `json:"gasCosts"`
	FeeCosts   []cost       `json:"feeCosts"`
}

type transactionRequest struct {
	Target               string       `json:"target"`
	TargetAddress        string       `json:"targetAddress"`
	To                   string       `json:"to"`
	Data                 string       `json:"data"`
	Value                httpx.Number `json:"value"`
	GasLimit             httpx.Number `json:"gasLimit"`
	GasPrice             httpx.Number `json:"gasPrice"`
	MaxFeePerGas         httpx.Number `json:"maxFeePerGas"`
	MaxPriorityFeePerGas httpx.Number `json:"maxPriorityFeePerGas"`
}

// Route is a quoted route with its transaction
type Route struct {
	Estimate           routeEstimate       `json:"estimate"`
	TransactionRequest *transactionRequest `json:"transactionRequest"`
}

// RouteResponse is the answer of POST /route
type RouteResponse struct {
	Route Route `json:"route"`
}

type chainTx struct {
	TransactionID string `json:"transactionId"`
}

// StatusResult is the answer of GET /status
type StatusResult struct {
	ID                     string  `json:"id"`
	Status                 string  `json:"status"`
	SquidTransactionStatus string  `json:"squidTransactionStatus"`
	FromChain              chainTx `json:"fromChain"`
	ToChain                chainTx `json:"toChain"`
}

func commonCosts(in []cost) []types.Cost {
	out := make([]types.Cost, 0, len(in))
	for _, c := range in {
		usd := c.AmountUSD.String()
		if usd == "" {
			usd = "0"
		}
		out = append(out, types.Cost{
			Name:      c.Name,
			Type:      c.Type,
			Amount:    c.Amount.String(),
			AmountUSD: usd,
		})
		if c.Token != nil {
			out[len(out)-1].Token = c.Token.common()
		}
	}
	return out
}

func parseSteps(actions []action) []types.RouteStep {
	steps := make([]types.RouteStep, 0, len(actions))
	for _, a := range actions {
		toChain, _ := strconv.ParseInt(a.ToChain.String(), 10, 64)
		fromChain, _ := strconv.ParseInt(a.FromChain.String(), 10, 64)
		steps = append(steps, types.RouteStep{
			Type:        a.Type,
			Description: a.Description,
			FromToken:   a.FromToken.common(),
			ToToken:     a.ToToken.common(),
			FromAmount:  a.FromAmount,
			ToAmount:    a.ToAmount,
			FromChain:   fromChain,
			ToChain:     toChain,
			Tool:        a.Provider,
			ToolDetails: &types.ToolDetails{Key: a.Provider, Name: a.Provider},
		})
	}
	return steps
}
