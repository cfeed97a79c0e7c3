package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Fetchers, clients and stores return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: no source knows the requested identifier
//   - ErrUnavailable: an upstream is temporarily unavailable
//   - ErrBadData: an upstream answered with a payload that could not be used
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrBadData     = errors.New("bad data")
)
