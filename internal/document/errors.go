package document

import "errors"

// Sentinel errors for the public operations. Callers branch with errors.Is;
// every failure a handler needs to distinguish wraps exactly one of these.
var (
	// ErrNormalization indicates the model response could not be turned into
	// structured fields
	ErrNormalization = errors.New("normalizing model response")

	// ErrOwnerNotFound indicates the supplied owner id does not resolve to a
	// known user
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrNotFound indicates the requested document or export target does not
	// exist for the caller
	ErrNotFound = errors.New("not found")

	// ErrStorage indicates a persistence layer failure
	ErrStorage = errors.New("storage failure")
)
