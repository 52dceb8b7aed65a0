// Package order implements the Order aggregate: the purchase lifecycle from
// placement to completion or cancellation.
//
// The package owns three pieces of decision logic:
//   - the actor-gated transition table (AuthorizeTransition, Order.Advance)
//   - the OTP gate that confirms delivery (Order.VerifyOTP)
//   - cancellation and refund eligibility (Order.Cancel, Order.AdminRefund)
//
// Fund release and stock restoration touch other aggregates and live in the
// domain services package; Order only records that they happened.
package order
