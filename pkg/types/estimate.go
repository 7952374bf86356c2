package types

// Token describes an asset as reported by a provider
type Token struct {
	ChainID  string `json:"chainId"`
	Address  string `json:"address,omitempty"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
	PriceUSD string `json:"priceUSD,omitempty"`
}

// ToolDetails names the protocol executing a step
type ToolDetails struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	LogoURI string `json:"logoURI,omitempty"`
}

// Cost is a gas or fee cost of a step
type Cost struct {
	Name      string `json:"name,omitempty"`
	Type      string `json:"type,omitempty"`
	Amount    string `json:"amount"`
	AmountUSD string `json:"amountUSD,omitempty"`
	Token     *Token `json:"token,omitempty"`
}

// StepEstimate holds per-step amounts and costs
type StepEstimate struct {
	FromAmount      string `json:"fromAmount,omitempty"`
	ToAmount        string `json:"toAmount,omitempty"`
	ToAmountMin     string `json:"toAmountMin,omitempty"`
	ApprovalAddress string `json:"approvalAddress,omitempty"`
	FeeCosts        []Cost `json:"feeCosts,omitempty"`
	GasCosts        []Cost `json:"gasCosts,omitempty"`
}

// RouteStep is one hop of a route, in execution order
type RouteStep struct {
	ID          string        `json:"id,omitempty"`
	Type        string        `json:"type"`
	Description string        `json:"description,omitempty"`
	FromToken   *Token        `json:"fromToken,omitempty"`
	ToToken     *Token        `json:"toToken,omitempty"`
	FromAmount  string        `json:"fromAmount,omitempty"`
	ToAmount    string        `json:"toAmount,omitempty"`
	FromChain   int64         `json:"fromChain,omitempty"`
	ToChain     int64         `json:"toChain,omitempty"`
	FromAddress string        `json:"fromAddress,omitempty"`
	ToAddress   string        `json:"toAddress,omitempty"`
	Tool        string        `json:"tool,omitempty"`
	ToolDetails *ToolDetails  `json:"toolDetails,omitempty"`
	Estimate    *StepEstimate `json:"estimate,omitempty"`
	Slippage    float64       `json:"slippage,omitempty"`
}

// TransactionRequest is the call a provider built for the payer to sign.
// Data is 0x-prefixed hex, numeric fields are decimal strings.
type TransactionRequest struct {
	From                 string `json:"from,omitempty"`
	To                   string `json:"to"`
	Data                 string `json:"data"`
	Value                string `json:"value,omitempty"`
	GasLimit             string `json:"gasLimit,omitempty"`
	GasPrice             string `json:"gasPrice,omitempty"`
	MaxFeePerGas         string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`
	ChainID              int64  `json:"chainId,omitempty"`
}

// Estimate is the normalized outcome attached to a transaction request
type Estimate struct {
	EstimatedOutput       float64     `json:"estimatedOutput"`
	EstimatedOutputWei    string      `json:"estimatedOutputWei"`
	EstimatedExchangeRate float64     `json:"estimatedExchangeRate"`
	TotalGasCostUSD       float64     `json:"totalGasCostUsd"`
	TotalGasCostWei       string      `json:"totalGasCostWei"`
	TotalFeeCostUSD       float64     `json:"totalFeeCostUsd"`
	TotalFeeCostWei       string      `json:"totalFeeCostWei"`
	ApprovalAddress       string      `json:"approvalAddress,omitempty"`
	Steps                 []RouteStep `json:"steps,omitempty"`
	ProviderID            ProviderID  `json:"aggregatorId,omitempty"`
}

// TransactionRequestWithEstimate pairs a built transaction with its estimate
type TransactionRequestWithEstimate struct {
	TransactionRequest
	Estimate
}
