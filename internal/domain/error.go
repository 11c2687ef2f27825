package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnknownProvider    = errors.New("unknown payment provider")
	ErrProviderError      = errors.New("payment provider request failed")
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrStorage            = errors.New("storage operation failed")
)

// API error codes surfaced in the response envelope.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodeVerificationFailed = "PAYMENT_VERIFICATION_FAILED"
	CodeInitFailed         = "PAYMENT_INIT_FAILED"
	CodeProviderError      = "PROVIDER_ERROR"
	CodeStorageError       = "STORAGE_ERROR"
)
