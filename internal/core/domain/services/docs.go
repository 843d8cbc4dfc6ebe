// Package services holds domain services that work across the partner and order aggregates.
//
// The package includes:
//   - PartnerMatcher: scores and ranks laundry partners for a pickup point
//   - TransitionGuard: role-aware authorization and application of order status changes
package services
