// Package errs provides the typed errors shared by the kitchen service.
//
// Every kind follows the same shape:
//   - a sentinel variable (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the details of one occurrence
//   - New… constructors, with and without a cause where a cause makes sense
//   - Error() for the message and Unwrap() returning the sentinel
//
// Kinds used by the order lifecycle:
//   - ObjectNotFoundError: unknown order or item
//   - ValueIsInvalidError, ValueIsRequiredError, ValueIsOutOfRangeError: bad input
//   - InvalidTransitionError: an item status change the state machine forbids
//   - PreconditionFailedError: completion attempted before every item is served
//   - AlreadyCompletedError: mutation of a completed order
//   - VersionIsInvalidError: optimistic lock conflict in persistence
//
// The HTTP adapter maps each sentinel to a status code, so callers should
// always return these types (or wrap them with %w) rather than ad-hoc errors.
package errs
