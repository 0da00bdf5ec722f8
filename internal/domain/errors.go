package domain

import "errors"

var (
	// Reference data errors
	ErrRateUnavailable     = errors.New("no exchange rate available for currency pair")
	ErrScopeNotFound       = errors.New("security scope not found")
	ErrCashAccountNotFound = errors.New("cash account not found")
	ErrTenantNotFound      = errors.New("tenant not found")

	// Event errors
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingCurrency        = errors.New("transaction has no currency")
	ErrMissingInstrument      = errors.New("trade has no instrument or security account")
	ErrInvalidSplit           = errors.New("split factors must be positive")

	// Timeline errors
	ErrTimelineGap     = errors.New("snapshot timeline has a gap")
	ErrTimelineOverlap = errors.New("snapshot timeline overlaps")

	// Dispatch errors
	ErrScopeLocked  = errors.New("scope is already being rebuilt")
	ErrInvalidTask  = errors.New("invalid rebuild task")
	ErrTaskNotFound = errors.New("rebuild task not found")
)
