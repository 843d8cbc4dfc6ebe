// Package guard holds the constructor guard embedded by value objects, entities,
// commands and queries so that zero values can be told apart from constructed ones.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as built through its constructor.
//
// Embed it as a private field and call Validate from the owner's Validate method:
//
//	type Estimate struct {
//	    minutes int
//	    guard   guard.ConstructorGuard
//	}
//
//	func (e Estimate) Validate() error {
//	    return e.guard.Validate(ErrEstimateIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
