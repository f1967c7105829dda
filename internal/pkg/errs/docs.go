// Package errs provides the error taxonomy of the bakery distribution service.
//
// Workflow kinds, surfaced to the caller as user-visible messages:
//   - ForbiddenError: role or ownership mismatch
//   - InvalidStateTransitionError: the order or delivery is not in the required status
//   - InvalidPayloadError: missing or malformed child-record data
//   - AlreadyProcessedError: a duplicate child record rejected by a uniqueness constraint;
//     it also matches ErrInvalidPayload
//   - ObjectNotFoundError: the referenced order, delivery or user is absent
//
// BackendUnavailableError wraps failures of the database, the session store or the
// file storage. Callers log it with full context before surfacing it.
//
// Constructor validation uses ValueIsRequiredError, ValueIsInvalidError and
// ValueIsOutOfRangeError. Classify folds those into InvalidPayload at the command
// boundary so handlers only ever return taxonomy errors.
//
// Each type follows the same pattern: a sentinel variable, a struct carrying the
// details, constructors with and without cause, Error() and Unwrap().
package errs
