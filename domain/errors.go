package domain

import "errors"

var (
	// ErrDataset the bundled currency dataset is missing or corrupt
	ErrDataset = errors.New("currency dataset")

	// ErrConfig required configuration, such as the API key, is missing or unreadable
	ErrConfig = errors.New("configuration")

	// ErrUnavailable an exchange rate could not be determined right now.
	// Callers should treat it as a connectivity problem, not a fatal error.
	ErrUnavailable = errors.New("exchange rate unavailable")

	// ErrNotFound a currency name or code is not in the catalog
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount an amount is not a non-negative whole number
	ErrInvalidAmount = errors.New("invalid amount")
)
