// Package order holds the Order aggregate of the laundry ledger and its lifecycle.
//
// The package includes:
//   - Order: the aggregate root with identity, parties, items, quote, route and status
//   - Status: the closed lifecycle enum with its transition table
//   - Number: the human-readable "ORD-0001" reference
//   - Item, Quote, Route: immutable value objects captured at creation
//
// Key business rules:
//   - PENDING -> PICKUP_ASSIGNED -> PICKED_UP -> READY_FOR_DELIVERY -> DELIVERING -> COMPLETED
//   - administrators may jump to any status, but nobody writes to a COMPLETED order
//   - the partner never changes; a courier, once set, is only replaced by an administrator
package order
