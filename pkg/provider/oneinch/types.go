package oneinch

import "meta-swap/pkg/provider/httpx"

// TokenInfo is returned when includeTokensInfo is set
type TokenInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Tx is the transaction built by 1inch
type Tx struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Data     string       `json:"data"`
	Value    httpx.Number `json:"value"`
	Gas      httpx.Number `json:"gas"`
	GasPrice httpx.Number `json:"gasPrice"`
}

// Swap is the answer of GET /{chainId}/swap
type Swap struct {
	FromToken *TokenInfo   `json:"fromToken"`
	ToToken   *TokenInfo   `json:"toToken"`
	ToAmount  httpx.Number `json:"toAmount"`
	Tx        Tx           `json:"tx"`
}
