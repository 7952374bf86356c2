package kyberswap

import (
	"encoding/json"

	"meta-swap/pkg/provider/httpx"
)

type response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// RouteSummary is the quoted route. The raw body is echoed back to /route/build.
type RouteSummary struct {
	TokenIn   string       `json:"tokenIn"`
	AmountIn  httpx.Number `json:"amountIn"`
	TokenOut  string       `json:"tokenOut"`
	AmountOut httpx.Number `json:"amountOut"`
	Gas       httpx.Number `json:"gas"`
	GasPrice  httpx.Number `json:"gasPrice"`
	GasUSD    httpx.Number `json:"gasUsd"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw summary
func (s *RouteSummary) UnmarshalJSON(b []byte) error {
	type plain RouteSummary
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = RouteSummary(p)
	s.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the summary as received
func (s RouteSummary) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	type plain RouteSummary
	return json.Marshal(plain(s))
}

type routesData struct {
	RouteSummary  *RouteSummary `json:"routeSummary"`
	RouterAddress string        `json:"routerAddress"`
}

type buildRequest struct {
	RouteSummary      *RouteSummary `json:"routeSummary"`
	Sender            string        `json:"sender"`
	Recipient         string        `json:"recipient"`
	Source            string        `json:"source"`
	SkipSimulateTx    bool          `json:"skipSimulateTx"`
	SlippageTolerance int           `json:"slippageTolerance"`
	Deadline          int64         `json:"deadline"`
}

// BuildData is the encoded swap
type BuildData struct {
	AmountIn      httpx.Number `json:"amountIn"`
	AmountOut     httpx.Number `json:"amountOut"`
	Gas           httpx.Number `json:"gas"`
	GasUSD        httpx.Number `json:"gasUsd"`
	Data          string       `json:"data"`
	RouterAddress string       `json:"routerAddress"`
}
