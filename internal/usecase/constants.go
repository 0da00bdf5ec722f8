package usecase

import "time"

const (
	// DefaultRebuildWorkers bounds the number of scopes rebuilt in parallel.
	DefaultRebuildWorkers = 4

	// DefaultScopeLockTTL bounds how long a crashed worker blocks its scopes.
	DefaultScopeLockTTL = 5 * time.Minute

	// UnitsPrecision is the number of decimal places at which a position
	// counts as closed.
	UnitsPrecision = 8
)

// Builder names used in metrics and logs.
const (
	builderSecurity    = "security"
	builderCashBalance = "cash_balance"
	builderCashDeposit = "cash_deposit"
)

// Run modes used in metrics and logs.
const (
	modeFull        = "full"
	modeIncremental = "incremental"
)
