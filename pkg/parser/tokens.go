package parser

import (
	"fmt"
	"strconv"
	"strings"

	"meta-swap/pkg/chain"
)

type knownToken struct {
	address  string
	decimals int
}

// chainNames maps the usual chain names to chain ids
var chainNames = map[string]int64{
	"ETH":       1,
	"ETHEREUM":  1,
	"MAINNET":   1,
	"OP":        10,
	"OPTIMISM":  10,
	"BSC":       56,
	"BNB":       56,
	"GNOSIS":    100,
	"XDAI":      100,
	"POL":       137,
	"POLYGON":   137,
	"MATIC":     137,
	"BASE":      8453,
	"ARB":       42161,
	"ARBITRUM":  42161,
	"AVAX":      43114,
	"AVALANCHE": 43114,
}

// nativeSymbols are the gas token symbols per chain
var nativeSymbols = map[int64][]string{
	1:     {"ETH"},
	10:    {"ETH"},
	56:    {"BNB"},
	100:   {"XDAI"},
	137:   {"POL", "MATIC"},
	8453:  {"ETH"},
	42161: {"ETH"},
	43114: {"AVAX"},
}

var tokenBook = map[int64]map[string]knownToken{
	1: {
		"USDC": {"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6},
		"USDT": {"0xdAC17F958D2ee523a2206206994597C13D831ec7", 6},
		"DAI":  {"0x6B175474E89094C44Da98b954EedeAC495271d0F", 18},
		"WETH": {"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 18},
		"WBTC": {"0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", 8},
	},
	10: {
		"USDC": {"0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", 6},
		"USDT": {"0x94b008aA00579c1307B0EF2c499aD98a8ce58e58", 6},
		"DAI":  {"0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", 18},
		"WETH": {"0x4200000000000000000000000000000000000006", 18},
	},
	56: {
		"USDC": {"0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", 18},
		"USDT": {"0x55d398326f99059fF775485246999027B3197955", 18},
	},
	137: {
		"USDC": {"0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", 6},
		"USDT": {"0xc2132D05D31c914a87C6611C10748AEb04B58e8F", 6},
		"DAI":  {"0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063", 18},
		"WETH": {"0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", 18},
	},
	8453: {
		"USDC": {"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", 6},
		"DAI":  {"0x50c5725949A6F0c72E6C4a641F24049A917DB0Cb", 18},
		"WETH": {"0x4200000000000000000000000000000000000006", 18},
	},
	42161: {
		"USDC": {"0xaf88d065e77c8cC2239327C5EDb3A432268e5831", 6},
		"USDT": {"0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", 6},
		"DAI":  {"0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", 18},
		"WETH": {"0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", 18},
	},
}

// ParseChain accepts a chain id or a chain name ("10", "optimism", "arb")
func ParseChain(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	if id, ok := chainNames[strings.ToUpper(s)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown chain %q", s)
}

// NormalizeTokenSymbol uppercases a symbol and resolves common aliases
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"USDC.E": "USDC",
		"MATIC":  "POL",
		"NATIVE": "",
	}
	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}
	return symbol
}

// lookupToken resolves a symbol on a chain. The empty symbol and the
// chain's gas token symbol resolve to the native placeholder.
func lookupToken(chainID int64, symbol string) (knownToken, bool) {
	symbol = NormalizeTokenSymbol(symbol)
	if symbol == "" {
		return knownToken{chain.NativeToken, chain.NativeDecimals}, true
	}
	for _, native := range nativeSymbols[chainID] {
		if NormalizeTokenSymbol(native) == symbol {
			return knownToken{chain.NativeToken, chain.NativeDecimals}, true
		}
	}
	t, ok := tokenBook[chainID][symbol]
	return t, ok
}
