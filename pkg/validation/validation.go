// Package validation checks swap requests before any provider is called.
package validation

import (
	"math/big"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"meta-swap/pkg/types"
)

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// registration only fails on empty tags or nil funcs
		_ = validate.RegisterValidation("evmaddr", func(fl validator.FieldLevel) bool {
			return IsAddress(fl.Field().String())
		})
		_ = validate.RegisterValidation("uintstr", func(fl validator.FieldLevel) bool {
			return IsAmount(fl.Field().String())
		})
	})
	return validate
}

// IsAddress reports whether s is 0x followed by exactly 40 hex characters
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// IsAmount reports whether s is a non-negative base-10 integer of any size
func IsAmount(s string) bool {
	if s == "" {
		return false
	}
	n, ok := new(big.Int).SetString(s, 10)
	return ok && n.Sign() >= 0
}

// Struct returns the field errors of req, nil when it is valid
func Struct(req *types.SwapRequest) error {
	return instance().Struct(req)
}

// Validate reports whether req is structurally valid. It never panics.
func Validate(req *types.SwapRequest) bool {
	if req == nil {
		return false
	}
	return Struct(req) == nil
}
