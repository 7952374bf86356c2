package paraswap

import (
	"encoding/json"
	"strconv"

	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

type swapExchange struct {
	Exchange   string       `json:"exchange"`
	SrcAmount  httpx.Number `json:"srcAmount"`
	DestAmount httpx.Number `json:"destAmount"`
	Percent    httpx.Number `json:"percent"`
}

type swap struct {
	SrcToken      string         `json:"srcToken"`
	SrcDecimals   int            `json:"srcDecimals"`
	DestToken     string         `json:"destToken"`
	DestDecimals  int            `json:"destDecimals"`
	SwapExchanges []swapExchange `json:"swapExchanges"`
}

type bestRoute struct {
	Percent httpx.Number `json:"percent"`
	Swaps   []swap       `json:"swaps"`
}

// PriceRoute is the priced path. The raw body is echoed back to /transactions.
type PriceRoute struct {
	Network            int64        `json:"network"`
	SrcToken           string       `json:"srcToken"`
	SrcDecimals        int          `json:"srcDecimals"`
	SrcAmount          httpx.Number `json:"srcAmount"`
	DestToken          string       `json:"destToken"`
	DestDecimals       int          `json:"destDecimals"`
	DestAmount         httpx.Number `json:"destAmount"`
	BestRoute          []bestRoute  `json:"bestRoute"`
	GasCostUSD         httpx.Number `json:"gasCostUSD"`
	GasCost            httpx.Number `json:"gasCost"`
	TokenTransferProxy string       `json:"tokenTransferProxy"`
	ContractAddress    string       `json:"contractAddress"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw route
func (p *PriceRoute) UnmarshalJSON(b []byte) error {
	type plain PriceRoute
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = PriceRoute(v)
	p.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the route as received
func (p PriceRoute) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	type plain PriceRoute
	return json.Marshal(plain(p))
}

func (p *PriceRoute) steps() []types.RouteStep {
	var steps []types.RouteStep
	for _, route := range p.BestRoute {
		for _, s := range route.Swaps {
			for _, ex := range s.SwapExchanges {
				steps = append(steps, types.RouteStep{
					Type:        "swap",
					FromToken:   &types.Token{ChainID: strconv.FormatInt(p.Network, 10), Address: s.SrcToken, Decimals: s.SrcDecimals},
					ToToken:     &types.Token{ChainID: strconv.FormatInt(p.Network, 10), Address: s.DestToken, Decimals: s.DestDecimals},
					FromAmount:  ex.SrcAmount.String(),
					ToAmount:    ex.DestAmount.String(),
					FromChain:   p.Network,
					ToChain:     p.Network,
					Tool:        ex.Exchange,
					ToolDetails: &types.ToolDetails{Key: ex.Exchange, Name: ex.Exchange},
				})
			}
		}
	}
	return steps
}

type pricesResponse struct {
	PriceRoute *PriceRoute `json:"priceRoute"`
}

type transactionRequest struct {
	SrcToken    string      `json:"srcToken"`
	DestToken   string      `json:"destToken"`
	SrcAmount   string      `json:"srcAmount"`
	Slippage    int         `json:"slippage"`
	UserAddress string      `json:"userAddress"`
	Receiver    string      `json:"receiver,omitempty"`
	Partner     string      `json:"partner"`
	PriceRoute  *PriceRoute `json:"priceRoute"`
	Deadline    int64       `json:"deadline"`
}

// Transaction is the answer of POST /transactions/{chainId}
type Transaction struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Value    httpx.Number `json:"value"`
	Data     string       `json:"data"`
	GasPrice httpx.Number `json:"gasPrice"`
	Gas      httpx.Number `json:"gas"`
	ChainID  httpx.Number `json:"chainId"`
}
