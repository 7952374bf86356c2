// Package provider defines the contract every quoting provider adapter implements.
package provider

import (
	"context"
	"errors"
	"fmt"

	"meta-swap/pkg/types"
	"meta-swap/pkg/validation"
)

var (
	// ErrInvalidInput is returned when a swap request fails validation
	ErrInvalidInput = errors.New("invalid input")
	// ErrProviderUnavailable is returned when a required credential is missing
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderHTTP is wrapped by errors for responses with status >= 400
	ErrProviderHTTP = errors.New("provider http error")
	// ErrMalformedResponse is returned when a provider body lacks expected fields
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoRoute reports that no provider produced a route
	ErrNoRoute = errors.New("no viable route found")
)

// Capabilities describes which request shapes a provider can serve
type Capabilities struct {
	CrossChain    bool
	ContractCalls bool
}

// Supports reports whether a request can be served without degrading it
// to a same-chain quote
func (c Capabilities) Supports(req *types.SwapRequest) bool {
	if req.IsCrossChain() && !c.CrossChain {
		return false
	}
	if req.HasContractCalls() && !c.ContractCalls {
		return false
	}
	return true
}

// Provider is a swap or bridge quoting service.
//
// TransactionRequest returns (nil, nil) when the provider has no route
// for the request.
//
//go:generate mockgen -package=aggregator_test -destination=../aggregator/mock_provider_test.go -source=provider.go
type Provider interface {
	ID() types.ProviderID
	Capabilities() Capabilities
	Routers() RouterTable
	TransactionRequest(ctx context.Context, req *types.SwapRequest) (*types.TransactionRequestWithEstimate, error)
}

// StatusChecker is implemented by providers able to track cross-chain transfers.
// Status returns (nil, nil) when the query carries nothing the provider understands.
type StatusChecker interface {
	Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error)
}

// Validate wraps the request validator into an ErrInvalidInput error
func Validate(req *types.SwapRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidInput)
	}
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
