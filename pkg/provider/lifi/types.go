package lifi

import (
	"fmt"
	"net/url"
	"strconv"

	cosmath "cosmossdk.io/math"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

// ContractCall is a destination call of the contractCalls endpoint
type ContractCall struct {
	FromAmount         string `json:"fromAmount"`
	FromTokenAddress   string `json:"fromTokenAddress"`
	ToContractAddress  string `json:"toContractAddress"`
	ToContractCallData string `json:"toContractCallData"`
	ToContractGasLimit string `json:"toContractGasLimit"`
}

// QuoteParams are sent as query parameters to /quote or as the body of /quote/contractCalls
type QuoteParams struct {
	FromChain            string         `json:"fromChain"`
	ToChain              string         `json:"toChain"`
	FromToken            string         `json:"fromToken"`
	ToToken              string         `json:"toToken"`
	FromAmount           string         `json:"fromAmount"`
	ToAmount             string         `json:"toAmount,omitempty"`
	FromAddress          string         `json:"fromAddress"`
	ToAddress            string         `json:"toAddress"`
	Order                string         `json:"order"`
	Slippage             float64        `json:"slippage"`
	MaxPriceImpact       float64        `json:"maxPriceImpact"`
	Integrator           string         `json:"integrator"`
	Referrer             string         `json:"referrer,omitempty"`
	AllowDestinationCall bool           `json:"allowDestinationCall"`
	DenyBridges          []string       `json:"denyBridges,omitempty"`
	DenyExchanges        []string       `json:"denyExchanges,omitempty"`
	ContractCalls        []ContractCall `json:"contractCalls,omitempty"`
}

// Values encodes the parameters of a GET /quote
func (p QuoteParams) Values() url.Values {
	v := url.Values{}
	v.Set("fromChain", p.FromChain)
	v.Set("toChain", p.ToChain)
	v.Set("fromToken", p.FromToken)
	v.Set("toToken", p.ToToken)
	v.Set("fromAmount", p.FromAmount)
	if p.ToAmount != "" {
		v.Set("toAmount", p.ToAmount)
	}
	v.Set("fromAddress", p.FromAddress)
	v.Set("toAddress", p.ToAddress)
	v.Set("order", p.Order)
	v.Set("slippage", strconv.FormatFloat(p.Slippage, 'f', -1, 64))
	v.Set("maxPriceImpact", strconv.FormatFloat(p.MaxPriceImpact, 'f', -1, 64))
	v.Set("integrator", p.Integrator)
	if p.Referrer != "" {
		v.Set("referrer", p.Referrer)
	}
	v.Set("allowDestinationCall", strconv.FormatBool(p.AllowDestinationCall))
	for _, b := range p.DenyBridges {
		v.Add("denyBridges", b)
	}
	for _, e := range p.DenyExchanges {
		v.Add("denyExchanges", e)
	}
	return v
}

type token struct {
	Address  string       `json:"address"`
	ChainID  httpx.Number `json:"chainId"`
	Symbol   string       `json:"symbol"`
	Name     string       `json:"name"`
	Decimals int          `json:"decimals"`
	LogoURI  string       `json:"logoURI"`
	PriceUSD string       `json:"priceUSD"`
}

func (t *token) common() *types.Token {
	if t == nil {
		return nil
	}
	return &types.Token{
		ChainID:  t.ChainID.String(),
		Address:  t.Address,
		Name:     t.Name,
		Symbol:   t.Symbol,
		Decimals: t.Decimals,
		LogoURI:  t.LogoURI,
		PriceUSD: t.PriceUSD,
	}
}

type cost struct {
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	Amount    httpx.Number `json:"amount"`
	AmountUSD httpx.Number `json:"amountUSD"`
	Token     *token       `json:"token"`
}

type stepEstimate struct {
	FromAmount      string       `json:"fromAmount"`
	ToAmount        httpx.Number `json:"toAmount"`
	ToAmountMin     string       `json:"toAmountMin"`
	ApprovalAddress string       `json:"approvalAddress"`
	FeeCosts        []cost       `json:"feeCosts"`
	GasCosts        []cost       `json:"gasCosts"`
}

type action struct {
	FromChainID int64   `json:"fromChainId"`
	ToChainID   int64   `json:"toChainId"`
	FromAmount  string  `json:"fromAmount"`
	FromToken   token   `json:"fromToken"`
	ToToken     token   `json:"toToken"`
	Slippage    float64 `json:"slippage"`
	FromAddress string  `json:"fromAddress"`
	ToAddress   string  `json:"toAddress"`
}

// Step is a LI.FI step, the quote itself being the outermost one
type Step struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Tool        string             `json:"tool"`
	ToolDetails *types.ToolDetails `json:"toolDetails"`
	Action      action             `json:"action"`
	Estimate    stepEstimate       `json:"estimate"`
}

type transactionRequest struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Data     string       `json:"data"`
	Value    httpx.Number `json:"value"`
	GasLimit httpx.Number `json:"gasLimit"`
	GasPrice httpx.Number `json:"gasPrice"`
	ChainID  httpx.Number `json:"chainId"`
}

// Quote is the answer of /quote and /quote/contractCalls
type Quote struct {
	Step
	IncludedSteps      []Step              `json:"includedSteps"`
	TransactionRequest *transactionRequest `json:"transactionRequest"`
}

type txDetails struct {
	TxHash string `json:"txHash"`
}

// TransactionStatus is the answer of /status
type TransactionStatus struct {
	TransactionID    string    `json:"transactionId"`
	Status           string    `json:"status"`
	Substatus        string    `json:"substatus"`
	SubstatusMessage string    `json:"substatusMessage"`
	Tool             string    `json:"tool"`
	Sending          txDetails `json:"sending"`
	Receiving        txDetails `json:"receiving"`
}

func commonCosts(in []cost) []types.Cost {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Cost, 0, len(in))
	for _, c := range in {
		out = append(out, types.Cost{
			Name:      c.Name,
			Type:      c.Type,
			Amount:    c.Amount.String(),
			AmountUSD: c.AmountUSD.String(),
			Token:     c.Token.common(),
		})
	}
	return out
}

// parseSteps converts included steps and totals their gas and fee costs
func parseSteps(steps []Step) ([]types.RouteStep, float64, cosmath.Int, float64, cosmath.Int, error) {
	gasUSD, feeUSD := 0.0, 0.0
	gasWei, feeWei := cosmath.ZeroInt(), cosmath.ZeroInt()

	out := make([]types.RouteStep, 0, len(steps))
	for _, s := range steps {
		est := &types.StepEstimate{
			FromAmount:      s.Estimate.FromAmount,
			ToAmount:        s.Estimate.ToAmount.String(),
			ToAmountMin:     s.Estimate.ToAmountMin,
			ApprovalAddress: s.Estimate.ApprovalAddress,
			FeeCosts:        commonCosts(s.Estimate.FeeCosts),
			GasCosts:        commonCosts(s.Estimate.GasCosts),
		}
		usd, wei, err := estimate.SumCosts(est.GasCosts)
		if err == nil {
			gasWei, err = estimate.AddAmounts(gasWei, wei)
		}
		if err != nil {
			return nil, 0, cosmath.Int{}, 0, cosmath.Int{}, fmt.Errorf("step %s gas: %w", s.ID, err)
		}
		gasUSD += usd
		usd, wei, err = estimate.SumCosts(est.FeeCosts)
		if err == nil {
			feeWei, err = estimate.AddAmounts(feeWei, wei)
		}
		if err != nil {
			return nil, 0, cosmath.Int{}, 0, cosmath.Int{}, fmt.Errorf("step %s fees: %w", s.ID, err)
		}
		feeUSD += usd

		out = append(out, types.RouteStep{
			ID:          s.ID,
			Type:        s.Type,
			FromToken:   s.Action.FromToken.common(),
			ToToken:     s.Action.ToToken.common(),
			FromAmount:  s.Action.FromAmount,
			ToAmount:    s.Estimate.ToAmount.String(),
			FromChain:   s.Action.FromChainID,
			ToChain:     s.Action.ToChainID,
			FromAddress: s.Action.FromAddress,
			ToAddress:   s.Action.ToAddress,
			Tool:        s.Tool,
			ToolDetails: s.ToolDetails,
			Estimate:    est,
			Slippage:    s.Action.Slippage,
		})
	}
	return out, gasUSD, gasWei, feeUSD, feeWei, nil
}
