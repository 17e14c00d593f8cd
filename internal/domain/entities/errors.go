package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectivity means the wallet provider is missing or the user refused the connection
	ErrConnectivity = errors.New("wallet connection failed")

	// ErrPersistence marks storage failures that must reach the caller
	ErrPersistence = errors.New("persistence failure")

	// ErrEventNotFound means a mint receipt carried no PortfolioMinted log
	ErrEventNotFound = errors.New("mint event not found in transaction receipt")

	// ErrTransactionReverted means the mint transaction was mined with a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrAlreadyMinted means the portfolio already has a recorded mint
	ErrAlreadyMinted = errors.New("portfolio already minted")

	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrInvalidRating     = errors.New("rating must be between 1 and 10")
	ErrUnknownReaction   = errors.New("unknown reaction")
	ErrUnsupportedChain  = errors.New("unsupported network")
)

// NewConnectivityError wraps a wallet provider failure
func NewConnectivityError(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrConnectivity, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrConnectivity, msg, err)
}

// NewPersistenceError wraps a storage failure for the named operation
func NewPersistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// EncodingError is returned when snapshot metadata cannot be serialized
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode metadata: %v", e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
