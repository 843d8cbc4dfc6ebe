// Package errs provides the typed validation and lookup errors used across the
// domain model and the persistence adapters.
//
// Every error type wraps a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired, ErrVersionIsInvalid) so callers can
// classify failures with errors.Is and still read the details with errors.As.
package errs
