package wallet

import "errors"

// Typed errors so callers can branch on kind instead of matching strings.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPayoutNotFound      = errors.New("payout not found")
	ErrAlreadySettled      = errors.New("payout already settled")
	ErrMethodNotFound      = errors.New("payout method not found")
	ErrMethodInUse         = errors.New("payout method has payouts attached")
)
