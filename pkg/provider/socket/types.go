package socket

import (
	"encoding/json"

	"meta-swap/pkg/provider/httpx"
	"meta-swap/pkg/types"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Result  T    `json:"result"`
}

// Asset is a token as described by Socket, decimals may be a string
type Asset struct {
	ChainID  httpx.Number `json:"chainId"`
	Address  string       `json:"address"`
	Name     string       `json:"name"`
	Symbol   string       `json:"symbol"`
	Decimals httpx.Number `json:"decimals"`
	LogoURI  string       `json:"logoURI"`
	Icon     string       `json:"icon"`
}

func (a Asset) common() *types.Token {
	logo := a.LogoURI
	if logo == "" {
		logo = a.Icon
	}
	return &types.Token{
		ChainID:  a.ChainID.String(),
		Address:  a.Address,
		Name:     a.Name,
		Symbol:   a.Symbol,
		Decimals: a.Decimals.Int(),
		LogoURI:  logo,
	}
}

// Route is one candidate path. Raw keeps the exact body for /build-tx.
type Route struct {
	RouteID           string       `json:"routeId"`
	FromAmount        httpx.Number `json:"fromAmount"`
	ToAmount          httpx.Number `json:"toAmount"`
	UsedBridgeNames   []string     `json:"usedBridgeNames"`
	TotalGasFeesInUSD httpx.Number `json:"totalGasFeesInUsd"`
	Sender            string       `json:"sender"`
	Recipient         string       `json:"recipient"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw route so it can be sent back unchanged
func (r *Route) UnmarshalJSON(b []byte) error {
	type plain Route
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Route(p)
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the route as received
func (r Route) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	type plain Route
	return json.Marshal(plain(r))
}

func (r *Route) steps(q *Quote) []types.RouteStep {
	steps := make([]types.RouteStep, 0, len(r.UsedBridgeNames))
	for _, name := range r.UsedBridgeNames {
		steps = append(steps, types.RouteStep{
			Type:        "bridge",
			FromToken:   q.FromAsset.common(),
			ToToken:     q.ToAsset.common(),
			FromAmount:  r.FromAmount.String(),
			ToAmount:    r.ToAmount.String(),
			FromChain:   int64(q.FromChainID.Int()),
			ToChain:     int64(q.ToChainID.Int()),
			FromAddress: r.Sender,
			ToAddress:   r.Recipient,
			Tool:        name,
			ToolDetails: &types.ToolDetails{Key: name, Name: name},
		})
	}
	return steps
}

// Quote is the result of GET /quote
type Quote struct {
	Routes      []Route      `json:"routes"`
	FromChainID httpx.Number `json:"fromChainId"`
	ToChainID   httpx.Number `json:"toChainId"`
	FromAsset   Asset        `json:"fromAsset"`
	ToAsset     Asset        `json:"toAsset"`
}

// ApprovalData names the spender to approve
type ApprovalData struct {
	MinimumApprovalAmount string `json:"minimumApprovalAmount"`
	ApprovalTokenAddress  string `json:"approvalTokenAddress"`
	AllowanceTarget       string `json:"allowanceTarget"`
	Owner                 string `json:"owner"`
}

// BuildTx is the result of POST /build-tx
type BuildTx struct {
	UserTxType   string        `json:"userTxType"`
	TxType       string        `json:"txType"`
	TxTarget     string        `json:"txTarget"`
	TxData       string        `json:"txData"`
	ChainID      httpx.Number  `json:"chainId"`
	Value        httpx.Number  `json:"value"`
	ApprovalData *ApprovalData `json:"approvalData"`
}

// StatusData is the result of GET /status
type StatusData struct {
	SourceTx                   string `json:"sourceTx"`
	SourceTxStatus             string `json:"sourceTxStatus"`
	DestinationTransactionHash string `json:"destinationTransactionHash"`
	DestinationTxStatus        string `json:"destinationTxStatus"`
}
