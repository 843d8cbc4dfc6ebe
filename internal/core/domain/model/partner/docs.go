// Package partner holds the Partner aggregate: a laundry business with a location,
// a rating and a bounded number of orders it can work on at once.
//
// Dispatch reserves one unit of capacity per order (Reserve) and completion frees it
// (Release). Only verified partners with spare capacity are matching candidates.
package partner
