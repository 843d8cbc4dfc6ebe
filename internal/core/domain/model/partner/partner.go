package partner

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

const (
	// MinRating is the lowest rating a partner can hold.
	MinRating = 0.0
	// MaxRating is the highest rating a partner can hold.
	MaxRating = 5.0
)

var (
	// ErrNameIsRequired is returned when a partner has no display name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPartnerIsNotConstructed is returned when using a Partner that was not built by a constructor.
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")
	// ErrPartnerIsNotVerified is returned when reserving capacity on an unverified partner.
	ErrPartnerIsNotVerified = errors.New("partner is not verified")
	// ErrPartnerIsAtCapacity is returned when reserving capacity on a saturated partner.
	ErrPartnerIsAtCapacity = errors.New("partner is at capacity")
)

// Partner is a laundry business that washes orders. It is the aggregate root of the
// partner registry and the unit the matcher scores.
//
// Business rules:
//   - capacity is the number of orders the partner works on concurrently and is positive
//   - currentLoad never goes below zero; it can exceed capacity only when loaded from
//     storage after an out-of-band change, and such a partner is never a candidate
//   - rating lies in [MinRating, MaxRating]
//   - only verified partners with currentLoad < capacity receive new orders
//
// Example:
//
//	hq, _ := kernel.NewGeoPoint(-7.2755, 112.7583)
//	p, err := partner.NewPartner(kernel.NewUUID(), ownerID, "Clean & Fresh Laundry HQ",
//	    "Jl. Manyar Kertoarjo No. 50, Surabaya", hq, 50, 4.8)
type Partner struct {
	id          kernel.UUID
	userID      kernel.UUID
	name        string
	address     string
	location    kernel.GeoPoint
	capacity    int
	currentLoad int
	rating      float64
	isVerified  bool
	guard       guard.ConstructorGuard
}

// NewPartner onboards an unverified partner with no load.
func NewPartner(
	id kernel.UUID,
	userID kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
	capacity int,
	rating float64,
) (*Partner, error) {
	return RestorePartner(id, userID, name, address, location, capacity, 0, rating, false)
}

// RestorePartner rebuilds a Partner from persisted state. All validation errors are
// reported together.
func RestorePartner(
	id kernel.UUID,
	userID kernel.UUID,
	name string,
	address string,
	location kernel.GeoPoint,
	capacity int,
	currentLoad int,
	rating float64,
	isVerified bool,
) (*Partner, error) {
	p := &Partner{
		address:    strings.TrimSpace(address),
		isVerified: isVerified,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setUserID(userID),
		p.setName(name),
		p.setLocation(location),
		p.setCapacity(capacity),
		p.setCurrentLoad(currentLoad),
		p.setRating(rating),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate fails for a nil or zero-value Partner.
func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

// IsEqual compares partners by identifier.
func (p *Partner) IsEqual(other *Partner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *Partner) ID() kernel.UUID {
	return p.id
}

// UserID returns the user that owns the partner record; notifications for the
// partner are addressed to this user.
func (p *Partner) UserID() kernel.UUID {
	return p.userID
}

func (p *Partner) Name() string {
	return p.name
}

func (p *Partner) Address() string {
	return p.address
}

func (p *Partner) Location() kernel.GeoPoint {
	return p.location
}

func (p *Partner) Capacity() int {
	return p.capacity
}

func (p *Partner) CurrentLoad() int {
	return p.currentLoad
}

func (p *Partner) Rating() float64 {
	return p.rating
}

func (p *Partner) IsVerified() bool {
	return p.isVerified
}

// IsOwnedBy reports whether userID owns this partner record.
func (p *Partner) IsOwnedBy(userID kernel.UUID) bool {
	return p.userID.IsEqual(userID)
}

// CanAcceptOrder reports whether the partner is a matching candidate: verified and
// strictly below capacity.
func (p *Partner) CanAcceptOrder() bool {
	return p.isVerified && p.currentLoad < p.capacity
}

// LoadFactor returns currentLoad/capacity.
func (p *Partner) LoadFactor() float64 {
	return float64(p.currentLoad) / float64(p.capacity)
}

// Verify marks the partner as eligible for dispatch.
func (p *Partner) Verify() {
	p.isVerified = true
}

// Reserve takes one unit of capacity for a newly dispatched order.
func (p *Partner) Reserve() error {
	if !p.isVerified {
		return ErrPartnerIsNotVerified
	}
	if p.currentLoad >= p.capacity {
		return ErrPartnerIsAtCapacity
	}
	p.currentLoad++
	return nil
}

// Release frees one unit of capacity when an order completes. The load never drops
// below zero.
func (p *Partner) Release() {
	if p.currentLoad > 0 {
		p.currentLoad--
	}
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return fmt.Errorf("partner user id: %w", err)
	}
	p.userID = userID
	return nil
}

func (p *Partner) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Partner) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}

func (p *Partner) setCapacity(capacity int) error {
	if capacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacity", fmt.Errorf("%d is not greater than 0", capacity))
	}
	p.capacity = capacity
	return nil
}

func (p *Partner) setCurrentLoad(load int) error {
	if load < 0 {
		return errs.NewValueIsInvalidErrorWithCause("current load", fmt.Errorf("%d is negative", load))
	}
	p.currentLoad = load
	return nil
}

func (p *Partner) setRating(rating float64) error {
	if rating < MinRating || rating > MaxRating || math.IsNaN(rating) {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	p.rating = rating
	return nil
}
