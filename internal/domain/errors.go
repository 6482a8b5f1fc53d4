package domain

import (
	"errors"
	"fmt"
)

// ErrorKind buckets ingestion failures for retry decisions and reporting.
type ErrorKind string

const (
	KindConfig    ErrorKind = "config"    // missing/disabled source or credential; never retried
	KindTransient ErrorKind = "transient" // timeout, 5xx, render failure; bounded retry
	KindVendor    ErrorKind = "vendor"    // 4xx rejection; needs human action
	KindParse     ErrorKind = "parse"     // malformed vendor response or feed document
)

// ConfigError marks a source that cannot be fetched at all this run.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("source %s misconfigured: %s", e.Source, e.Reason)
}

// TransientError wraps failures that are worth retrying within the run.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// VendorRejection is a 4xx-class refusal from a news API.
type VendorRejection struct {
	Vendor string
	Status int
	Body   string
}

func (e *VendorRejection) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("vendor %s rejected request (status %d): %s", e.Vendor, e.Status, e.Body)
	}
	return fmt.Sprintf("vendor %s rejected request (status %d)", e.Vendor, e.Status)
}

// ParseError marks an unreadable vendor payload or feed document.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse response from %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Classify maps an error to its kind. Unknown errors (raw network failures,
// context deadlines) are treated as transient.
func Classify(err error) ErrorKind {
	var (
		configErr *ConfigError
		vendorErr *VendorRejection
		parseErr  *ParseError
	)
	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &vendorErr):
		return KindVendor
	case errors.As(err, &parseErr):
		return KindParse
	default:
		return KindTransient
	}
}

// IsRetryable reports whether the bounded retry policy applies.
func IsRetryable(err error) bool {
	return Classify(err) == KindTransient
}
