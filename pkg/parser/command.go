package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"meta-swap/pkg/chain"
	"meta-swap/pkg/estimate"
)

// UnknownDecimals marks a token given by address whose decimals are not known yet
const UnknownDecimals = -1

var commandPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s+(\S+)\s+TO\s+(\S+)$`)

// Asset is one side of a parsed command
type Asset struct {
	Symbol   string
	Address  string
	ChainID  int64
	Decimals int
}

// Command is a parsed swap command
type Command struct {
	Amount string
	Input  Asset
	Output Asset
}

// ParseSwapCommand parses a swap command
// Examples:
//   - "swap 1000 USDC@optimism to DAI@arbitrum"
//   - "1.5 ETH@1 to USDC"
//   - "100 0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85@10 to 0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1@42161"
//
// defaultChain applies when the input has no @chain, 0 makes it mandatory.
// The output chain defaults to the input chain.
func ParseSwapCommand(command string, defaultChain int64) (*Command, error) {
	command = strings.TrimSpace(command)
	if len(command) >= 5 && strings.EqualFold(command[:5], "swap ") {
		command = strings.TrimSpace(command[5:])
	}

	matches := commandPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: '<amount> <token>[@chain] to <token>[@chain]' (e.g., '1000 USDC@optimism to DAI@arbitrum')")
	}

	input, err := parseAsset(matches[2], defaultChain)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	output, err := parseAsset(matches[3], input.ChainID)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return &Command{Amount: matches[1], Input: input, Output: output}, nil
}

func parseAsset(s string, defaultChain int64) (Asset, error) {
	token, chainName, hasChain := strings.Cut(s, "@")
	chainID := defaultChain
	if hasChain {
		id, err := ParseChain(chainName)
		if err != nil {
			return Asset{}, err
		}
		chainID = id
	}
	if chainID == 0 {
		return Asset{}, fmt.Errorf("chain of %s is required, use %s@<chain>", token, token)
	}

	if strings.HasPrefix(strings.ToLower(token), "0x") {
		if !common.IsHexAddress(token) {
			return Asset{}, fmt.Errorf("invalid token address %q", token)
		}
		a := Asset{Address: token, ChainID: chainID, Decimals: UnknownDecimals}
		if chain.IsNative(token) {
			a.Decimals = chain.NativeDecimals
		}
		return a, nil
	}

	known, ok := lookupToken(chainID, token)
	if !ok {
		return Asset{}, fmt.Errorf("unknown token %s on chain %d, use its address", strings.ToUpper(token), chainID)
	}
	return Asset{
		Symbol:   NormalizeTokenSymbol(token),
		Address:  known.address,
		ChainID:  chainID,
		Decimals: known.decimals,
	}, nil
}

// Label is the symbol when known, the shortened address otherwise
func (a Asset) Label() string {
	if a.Symbol != "" {
		return a.Symbol
	}
	if len(a.Address) > 10 {
		return a.Address[:6] + "..." + a.Address[len(a.Address)-4:]
	}
	return a.Address
}

// AmountWei converts the human amount into raw units of the input token.
// Decimals of tokens given by address are read through r.
func (c *Command) AmountWei(ctx context.Context, r chain.DecimalsResolver) (string, error) {
	decimals := c.Input.Decimals
	if decimals == UnknownDecimals {
		if r == nil {
			return "", fmt.Errorf("decimals of %s: %w", c.Input.Address, chain.ErrNoRPC)
		}
		d, err := r.Decimals(ctx, c.Input.ChainID, c.Input.Address)
		if err != nil {
			return "", fmt.Errorf("decimals of %s: %w", c.Input.Address, err)
		}
		decimals = d
	}
	amount, err := estimate.ParseUnits(c.Amount, decimals)
	if err != nil {
		return "", err
	}
	return amount.String(), nil
}
