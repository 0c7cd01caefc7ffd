package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/quantarc/tradegate/pkg/errors"
)

// SecurityType identifies the instrument class of a contract.
type SecurityType string

const (
	SecurityTypeStock  SecurityType = "STK"
	SecurityTypeFuture SecurityType = "FUT"
	SecurityTypeForex  SecurityType = "CASH"
	SecurityTypeCrypto SecurityType = "CRYPTO"
)

// Contract identifies a tradable instrument at the venue.
type Contract struct {
	// ContractID is the venue's unique instrument identifier, zero until a
	// contract details lookup resolves it.
	ContractID   int64        `json:"contract_id" yaml:"contract_id"`
	Symbol       string       `json:"symbol" yaml:"symbol" validate:"required"`
	SecurityType SecurityType `json:"security_type" yaml:"security_type" validate:"required,oneof=STK FUT CASH CRYPTO"`
	Exchange     string       `json:"exchange" yaml:"exchange" validate:"required"`
	Currency     string       `json:"currency" yaml:"currency" validate:"required"`
}

// Validate validates the Contract struct.
func (c *Contract) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidContract, "invalid contract", err)
	}

	return nil
}

// Key returns the FeedKey identifying this contract's logical feed.
func (c *Contract) Key() FeedKey {
	return FeedKey{
		Symbol:       c.Symbol,
		SecurityType: c.SecurityType,
		Exchange:     c.Exchange,
		Currency:     c.Currency,
	}
}

// FeedKey identifies a logical market-data feed. Two keys are equal when
// their tuple fields are equal; any venue-assigned ticker ID is deliberately
// not part of the key.
type FeedKey struct {
	Symbol       string       `json:"symbol" yaml:"symbol"`
	SecurityType SecurityType `json:"security_type" yaml:"security_type"`
	Exchange     string       `json:"exchange" yaml:"exchange"`
	Currency     string       `json:"currency" yaml:"currency"`
}

// String implements fmt.Stringer.
func (k FeedKey) String() string {
	return fmt.Sprintf("%s/%s@%s(%s)", k.Symbol, k.SecurityType, k.Exchange, k.Currency)
}

// Session is an opaque handle identifying one independent feed consumer.
// Callers hold a session per logical reader instead of relying on goroutine
// identity.
type Session string

// FeedStateKey scopes simulator feed and book state so two sessions replaying
// the same symbol never share progress.
type FeedStateKey struct {
	Symbol  string
	Session Session
}
