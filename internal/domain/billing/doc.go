// Package billing provides the domain models for metering phone line usage.
//
// This package holds the collaborators the contract policies operate on:
//   - Call: immutable record of a single call with its duration in seconds
//   - Bill: per-month accumulator of fixed cost, free minutes and billed minutes
//   - Period: a calendar billing month
//
// Aggregates owned by the application layer:
//   - PhoneLine: a number bound to exactly one contract for its lifetime
//   - Statement: the closed-out snapshot of one line's bill for one period
//
// Pricing rules do not live here. The contract package decides how a bill
// is charged; this package only records what it is told.
package billing
