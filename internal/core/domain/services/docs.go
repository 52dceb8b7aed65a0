// Package services holds the domain services of the order engine: logic that
// spans several aggregates and therefore belongs to none of them.
//
// The package includes:
//   - PricingEngine: the fixed delivery fee and ETA table
//   - EscrowLedger: the single implementation of fund release on completion
//   - CancellationCoordinator: cancellation and refunds with stock restoration
//
// All services are pure. They mutate the aggregates handed to them and never
// perform I/O, so a unit of work that calls them can be re-run from scratch.
package services
