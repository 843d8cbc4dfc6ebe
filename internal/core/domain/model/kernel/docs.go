// Package kernel provides the value objects shared by every aggregate of the
// laundry marketplace: identifiers (UUID), geographic points (GeoPoint) and the
// authenticated actor (Actor, Role).
//
// All of them are immutable, and their zero values fail Validate so that only
// constructor-built instances travel through the domain.
package kernel
