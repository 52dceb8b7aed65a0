// Package errs provides the error types shared by the order engine.
//
// Two families live here:
//   - Value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     ObjectNotFoundError, VersionIsInvalidError) produced by constructors and
//     repositories. Each pairs a sentinel with a struct type whose Unwrap returns it.
//   - BusinessError, a rule violation tagged with one of the canonical Codes
//     (ORDER_NOT_FOUND, INVALID_TRANSITION, ORDER_LOCKED, ...). Sentinels such as
//     ErrInvalidTransition match any BusinessError with the same code.
//
// CodeOf collapses any error into a canonical Code for transport layers.
package errs
