package apperrors

import "errors"

// Validation errors are returned before anything reaches the ledger.
var (
	// ErrInvalidPrice indicates a non-positive or non-numeric closing price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrUnknownGrade indicates a grade outside the recognised set while strict mode is enabled.
	ErrUnknownGrade = errors.New("unknown grade")

	// ErrInvalidBand indicates a fixed band whose bounds are not 0 < lower <= upper.
	ErrInvalidBand = errors.New("invalid price band")

	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Lookup outcomes.
var (
	// ErrNoDynamicData is a normal outcome: the grade has no closing price at or before the as-of date.
	// Callers fall back to the fixed catalog or report absence.
	ErrNoDynamicData = errors.New("no dynamic price data")

	ErrClosingPriceNotFound = errors.New("closing price not found")
	ErrFixedBandNotFound    = errors.New("fixed price band not found")
)

// ErrStoreUnavailable wraps transient failures of the external ledger. It is retryable.
var ErrStoreUnavailable = errors.New("price store unavailable")
