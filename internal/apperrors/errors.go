package apperrors

import (
	"errors"
)

var (
	ErrAccountAlreadyExists = errors.New("ledger account already exists")
	ErrAccountNotFound      = errors.New("ledger account not found")

	ErrMissingPayoutDestination = errors.New("payout destination is required")
	ErrBelowMinimum             = errors.New("amount is below the minimum withdrawal")
	ErrInsufficientBalance      = errors.New("insufficient balance")

	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrReferralNotFound   = errors.New("referral not found")
	ErrAlreadySettled     = errors.New("withdrawal already settled")

	ErrConflict = errors.New("storage conflict, retries exhausted")
)
