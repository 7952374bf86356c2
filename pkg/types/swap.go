package types

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ProviderID identifies a quoting provider
type ProviderID string

const (
	LiFi      ProviderID = "LIFI"
	Squid     ProviderID = "SQUID"
	Socket    ProviderID = "SOCKET"
	KyberSwap ProviderID = "KYBERSWAP"
	OneInch   ProviderID = "ONE_INCH"
	ZeroX     ProviderID = "ZERO_X"
	ParaSwap  ProviderID = "PARASWAP"
	OneClick  ProviderID = "ONECLICK"
)

// AllProviders lists every known provider in display order
var AllProviders = []ProviderID{LiFi, Squid, Socket, KyberSwap, OneInch, ZeroX, ParaSwap, OneClick}

// ParseProviderID converts a user supplied name ("lifi", "one_inch", "1inch") to a ProviderID
func ParseProviderID(s string) (ProviderID, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "_")
	switch name {
	case "1INCH", "ONEINCH":
		return OneInch, nil
	case "0X", "ZEROX":
		return ZeroX, nil
	case "KYBER":
		return KyberSwap, nil
	case "1CLICK", "NEAR":
		return OneClick, nil
	}
	for _, id := range AllProviders {
		if string(id) == name {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// ContractCall is a call executed on the destination chain after the swap
type ContractCall struct {
	ToAddress string `json:"toAddress,omitempty"`
	CallData  string `json:"callData"`
	GasLimit  string `json:"gasLimit,omitempty"`
}

// SwapRequest describes a token conversion to quote.
// OutputChainID 0 means same-chain, MaxSlippage and Deadline 0 mean unset.
type SwapRequest struct {
	ProviderIDs             []ProviderID   `json:"aggregatorId,omitempty"`
	Input                   string         `json:"input" validate:"evmaddr"`
	InputChainID            int64          `json:"inputChainId" validate:"min=0"`
	Output                  string         `json:"output" validate:"evmaddr"`
	OutputChainID           int64          `json:"outputChainId,omitempty"`
	AmountWei               string         `json:"amountWei" validate:"uintstr"`
	Payer                   string         `json:"payer" validate:"evmaddr"`
	Receiver                string         `json:"receiver,omitempty"`
	TestPayer               string         `json:"testPayer,omitempty"`
	Referrer                string         `json:"referrer,omitempty"`
	Project                 string         `json:"project,omitempty"`
	MaxSlippage             int            `json:"maxSlippage,omitempty"`
	Deadline                int64          `json:"deadline,omitempty"`
	CustomContractCalls     []ContractCall `json:"customContractCalls,omitempty"`
	DenyBridges             []string       `json:"denyBridges,omitempty"`
	DenyExchanges           []string       `json:"denyExchanges,omitempty"`
	ReceiveGasOnDestination bool           `json:"receiveGasOnDestination,omitempty"`
}

// DestChainID returns the output chain, defaulting to the input chain
func (r *SwapRequest) DestChainID() int64 {
	if r.OutputChainID == 0 {
		return r.InputChainID
	}
	return r.OutputChainID
}

// IsCrossChain reports whether the output chain differs from the input chain
func (r *SwapRequest) IsCrossChain() bool {
	return r.OutputChainID != 0 && r.OutputChainID != r.InputChainID
}

// HasContractCalls reports whether post-swap contract calls are attached
func (r *SwapRequest) HasContractCalls() bool {
	return len(r.CustomContractCalls) > 0
}

// NeedsCrossChainEndpoint reports whether a provider must use its bridge/contract-call variant
func (r *SwapRequest) NeedsCrossChainEndpoint() bool {
	return r.IsCrossChain() || r.HasContractCalls()
}

// Sender is the address quotes are built for: the test payer when set
func (r *SwapRequest) Sender() string {
	if r.TestPayer != "" {
		return r.TestPayer
	}
	return r.Payer
}

// Recipient is the receiver when set, the payer otherwise
func (r *SwapRequest) Recipient() string {
	if r.Receiver != "" {
		return r.Receiver
	}
	return r.Payer
}

// Amount parses AmountWei, returning nil when it is not an integer
func (r *SwapRequest) Amount() *big.Int {
	n, ok := new(big.Int).SetString(r.AmountWei, 10)
	if !ok {
		return nil
	}
	return n
}

// Clone returns a copy whose slices can be modified independently
func (r *SwapRequest) Clone() *SwapRequest {
	c := *r
	c.ProviderIDs = append([]ProviderID(nil), r.ProviderIDs...)
	c.CustomContractCalls = append([]ContractCall(nil), r.CustomContractCalls...)
	c.DenyBridges = append([]string(nil), r.DenyBridges...)
	c.DenyExchanges = append([]string(nil), r.DenyExchanges...)
	return &c
}

// String renders the request for log lines, e.g.
// "Meta swap: 10:0x0b2c.ff85 (1e9 wei) -> 42161:0xda10.0da1"
func (r *SwapRequest) String() string {
	label := "Meta"
	if len(r.ProviderIDs) > 0 {
		ids := make([]string, len(r.ProviderIDs))
		for i, id := range r.ProviderIDs {
			ids[i] = string(id)
		}
		label = strings.Join(ids, ",")
	}
	return fmt.Sprintf("%s swap: %d:%s (%s wei) -> %d:%s",
		label, r.InputChainID, ShortenAddress(r.Input), CompactWei(r.AmountWei), r.DestChainID(), ShortenAddress(r.Output))
}

// ShortenAddress keeps the first and last 4 hex characters of an address
func ShortenAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "." + address[len(address)-4:]
}

// CompactWei rounds an integer amount to 1e4 and prints it in exponent form ("1e9", "1.5e18")
func CompactWei(wei string) string {
	f, ok := new(big.Float).SetString(wei)
	if !ok {
		return wei
	}
	v, _ := f.Float64()
	v = math.Round(v/1e4) * 1e4
	if v == 0 {
		return "0e0"
	}
	s := fmt.Sprintf("%e", v)
	mantissa, exp, _ := strings.Cut(s, "e")
	mantissa = strings.TrimRight(strings.TrimRight(mantissa, "0"), ".")
	exp = strings.TrimPrefix(exp, "+")
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "e" + exp
}
