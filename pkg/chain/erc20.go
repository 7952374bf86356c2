// Package chain reads token metadata from EVM chains and encodes token calls.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

// NativeToken is the placeholder providers use for a chain's gas token
const NativeToken = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// NativeDecimals is the precision of every EVM gas token
const NativeDecimals = 18

// ErrNoRPC is returned when no JSON-RPC endpoint is configured for a chain
var ErrNoRPC = errors.New("no rpc endpoint configured")

const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

var erc20 = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// IsNative reports whether token designates the gas token
func IsNative(token string) bool {
	if strings.EqualFold(token, NativeToken) {
		return true
	}
	return common.IsHexAddress(token) && common.HexToAddress(token) == (common.Address{})
}

// TransferCallData encodes an ERC20 transfer(to, amount) call
func TransferCallData(to string, amount *big.Int) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid recipient %q", to)
	}
	data, err := erc20.Pack("transfer", common.HexToAddress(to), amount)
	if err != nil {
		return "", fmt.Errorf("failed to pack transfer: %w", err)
	}
	return hexutil.Encode(data), nil
}

// DecimalsResolver looks up the decimals of a token
type DecimalsResolver interface {
	Decimals(ctx context.Context, chainID int64, token string) (int, error)
}

type tokenKey struct {
	chainID int64
	token   common.Address
}

// RPCDecimals reads decimals() over JSON-RPC and caches the answers
type RPCDecimals struct {
	urls map[int64]string

	mu      sync.Mutex
	clients map[int64]*ethclient.Client
	cache   map[tokenKey]int
}

// NewRPCDecimals creates a resolver for the given chain id to RPC URL map
func NewRPCDecimals(urls map[int64]string) *RPCDecimals {
	copied := make(map[int64]string, len(urls))
	for id, u := range urls {
		copied[id] = u
	}
	return &RPCDecimals{
		urls:    copied,
		clients: make(map[int64]*ethclient.Client),
		cache:   make(map[tokenKey]int),
	}
}

// Decimals returns the decimals of token on chainID
func (r *RPCDecimals) Decimals(ctx context.Context, chainID int64, token string) (int, error) {
	if IsNative(token) {
		return NativeDecimals, nil
	}
	if !common.IsHexAddress(token) {
		return 0, fmt.Errorf("invalid token address %q", token)
	}
	key := tokenKey{chainID: chainID, token: common.HexToAddress(token)}

	r.mu.Lock()
	if d, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return d, nil
	}
	r.mu.Unlock()

	client, err := r.client(ctx, chainID)
	if err != nil {
		return 0, err
	}

	data, err := erc20.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals: %w", err)
	}
	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &key.token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("decimals call on chain %d: %w", chainID, err)
	}
	values, err := erc20.Unpack("decimals", out)
	if err != nil || len(values) != 1 {
		return 0, fmt.Errorf("failed to decode decimals of %s: %v", token, err)
	}
	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals type %T", values[0])
	}

	r.mu.Lock()
	r.cache[key] = int(d)
	r.mu.Unlock()
	return int(d), nil
}

func (r *RPCDecimals) client(ctx context.Context, chainID int64) (*ethclient.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[chainID]; ok {
		return c, nil
	}
	url, ok := r.urls[chainID]
	if !ok || url == "" {
		return nil, fmt.Errorf("%w for chain %d", ErrNoRPC, chainID)
	}
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	r.clients[chainID] = c
	return c, nil
}

// Close releases the RPC connections
func (r *RPCDecimals) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.clients {
		c.Close()
		delete(r.clients, id)
	}
}

// PairDecimals resolves the decimals of both sides of a same-chain swap
func PairDecimals(ctx context.Context, r DecimalsResolver, chainID int64, input, output string) (int, int, error) {
	if r == nil {
		return 0, 0, ErrNoRPC
	}
	in, err := r.Decimals(ctx, chainID, input)
	if err != nil {
		return 0, 0, err
	}
	out, err := r.Decimals(ctx, chainID, output)
	if err != nil {
		return 0, 0, err
	}
	return in, out, nil
}
