// internal/services/errors.go
package services

import "fmt"

// ValidationError is a client-side rejection raised before any network
// operation: bad file extension, oversize payload, malformed input. The
// caller can correct it and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	return "validation failed: " + e.Reason
}

// TransferError is a network or storage failure during byte transfer.
// No record was changed; re-invoking the upload is safe.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed during %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// PersistenceError signals a partial completion: bytes reached storage
// but the record update failed, leaving the file orphaned. There is no
// automated repair; an operator reconciles by hand.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record update failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// FetchError is a signed-URL or download failure while the worker
// retrieves an item. The item stays in GDS_UPLOADED and is retried on
// the next invocation.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed during %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ToolInvocationError carries a non-zero exit from the geometry tool.
// It is a legitimate FAIL verdict, not a system fault; the worker
// converts it into the XOR_FAILED terminal status.
type ToolInvocationError struct {
	ExitCode int
	Output   string
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("verification tool exited with code %d", e.ExitCode)
}

// ForbiddenError is an authorization rejection: the session lacks the
// role or NDA state the operation requires. No state was changed.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// NotFoundError names a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }
