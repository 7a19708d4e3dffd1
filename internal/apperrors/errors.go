package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that a fund with the given code does not exist.
	ErrFundNotFound = errors.New("fund not found")

	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrStrategyNotFound indicates that no strategy is registered under the given name.
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrNoActiveStrategy indicates that the budget's active strategy is not registered.
	ErrNoActiveStrategy = errors.New("no active strategy found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDimension indicates an allocation dimension outside asset_class, sector, geography.
	ErrInvalidDimension = errors.New("invalid allocation dimension")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidStrategyConfig indicates a stored or submitted strategy config that cannot be decoded.
	ErrInvalidStrategyConfig = errors.New("invalid strategy configuration")

	// ErrInvalidTargetBand indicates a target position minimum above the maximum.
	ErrInvalidTargetBand = errors.New("target position min exceeds max")

	// Validation errors for required fields
	ErrInvalidFundCode = errors.New("fund code is required")
	ErrInvalidDate     = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Fund operation errors
	ErrFailedToRetrieveFund        = errors.New("failed to retrieve fund")
	ErrFailedToRetrieveNavHistory  = errors.New("failed to retrieve nav history")
	ErrFailedToRetrieveAllocations = errors.New("failed to retrieve fund allocations")
	ErrFailedToImportNavs          = errors.New("failed to import fund navs")
	ErrFailedToOverrideAllocation  = errors.New("failed to override fund allocation")
	ErrFailedToRetrieveTopHoldings = errors.New("failed to retrieve fund top holdings")
	ErrFailedToReplaceTopHoldings  = errors.New("failed to replace fund top holdings")

	// Holding operation errors
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveChangeLog = errors.New("failed to retrieve holding change log")

	// Portfolio operation errors
	ErrFailedToGetPortfolioSummary = errors.New("failed to get portfolio summary")
	ErrFailedToGetPlatformSummary  = errors.New("failed to get platform summary")
	ErrFailedToGetAllocation       = errors.New("failed to get weighted allocation")
	ErrFailedToTakeSnapshot        = errors.New("failed to take portfolio snapshot")
	ErrFailedToRetrieveSnapshots   = errors.New("failed to retrieve portfolio snapshots")

	// Position operation errors
	ErrFailedToRetrieveBudget         = errors.New("failed to retrieve position budget")
	ErrFailedToUpdateBudget           = errors.New("failed to update position budget")
	ErrFailedToRetrieveBudgetLog      = errors.New("failed to retrieve budget change log")
	ErrFailedToRetrieveStrategyConfig = errors.New("failed to retrieve strategy configuration")
	ErrFailedToUpdateStrategyConfig   = errors.New("failed to update strategy configuration")
	ErrFailedToBuildContext           = errors.New("failed to build portfolio context")
	ErrFailedToRunStrategy            = errors.New("failed to run strategy")

	// Dashboard operation errors
	ErrFailedToGetReminders = errors.New("failed to get reminders")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a holding references a fund that doesn't exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
