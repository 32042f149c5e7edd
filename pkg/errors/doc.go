// Package errors provides structured error handling with error codes for
// simple-provision.
//
// Every stage of the provisioning flow returns a typed *Error whose code
// maps deterministically onto an HTTP status, so the webhook handler never
// has to inspect error strings.
//
// Creating errors:
//
//	err := errors.New(errors.ErrCodeInvalidProduct, "invalid product")
//	err := errors.Wrap(dbErr, errors.ErrCodeProfileWriteFailed, "failed to upsert profile")
//
// Inspecting errors:
//
//	if errors.IsCode(err, errors.ErrCodeUnauthorized) { ... }
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
package errors
