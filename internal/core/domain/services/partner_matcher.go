package services

import (
	"errors"
	"sort"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"
)

// ErrPartnerNotFound is returned when no verified partner with spare capacity is available.
var ErrPartnerNotFound = errors.New("partner not found")

const (
	ratingWeight   = 0.4
	distanceWeight = 0.4
	loadWeight     = 0.2
	// distanceScale turns planar degree distance into score units, so that
	// 0.01 degree (about 1.1 km at the equator) costs as much as one rating star.
	distanceScale = 100.0
)

// PartnerMatcher is a domain service that picks the laundry partner for a new order.
//
// Only verified partners with current load below capacity are candidates. Each candidate is
// scored as
//
//	score = 0.4*rating - 0.4*(distance*100) - 0.2*(currentLoad/capacity)
//
// where distance is the planar distance between the pickup point and the partner in decimal
// degrees. The planar metric is an approximation that ignores the earth's curvature and the
// shrinking of longitude degrees away from the equator; it is adequate at city scale.
//
// The highest score wins. Exact ties go to the partner with the lexicographically smallest id,
// so the result is deterministic for the same input.
//
// Example usage:
//
//	matcher := services.NewPartnerMatcher()
//	best, err := matcher.Select(pickup, partners)
//	if errors.Is(err, services.ErrPartnerNotFound) {
//	    // nobody can take the order
//	}
type PartnerMatcher struct{}

func NewPartnerMatcher() PartnerMatcher {
	return PartnerMatcher{}
}

// Score returns the matching score of p for an order picked up at pickup. It does not check
// eligibility.
func (m PartnerMatcher) Score(p *partner.Partner, pickup kernel.GeoPoint) float64 {
	distance := pickup.PlanarDistance(p.Location())
	return ratingWeight*p.Rating() - distanceWeight*(distance*distanceScale) - loadWeight*p.LoadFactor()
}

// Select returns the best candidate, or ErrPartnerNotFound when there is none.
func (m PartnerMatcher) Select(pickup kernel.GeoPoint, partners []*partner.Partner) (*partner.Partner, error) {
	ranked, err := m.Rank(pickup, partners)
	if err != nil {
		return nil, err
	}
	return ranked[0], nil
}

// Rank returns every eligible partner ordered from best to worst. The dispatcher walks this
// list when a capacity reservation on a better candidate loses a race.
func (m PartnerMatcher) Rank(pickup kernel.GeoPoint, partners []*partner.Partner) ([]*partner.Partner, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	type scored struct {
		partner *partner.Partner
		score   float64
	}

	candidates := make([]scored, 0, len(partners))
	for _, p := range partners {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if !p.CanAcceptOrder() {
			continue
		}
		candidates = append(candidates, scored{partner: p, score: m.Score(p, pickup)})
	}

	if len(candidates) == 0 {
		return nil, ErrPartnerNotFound
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].partner.ID().String() < candidates[j].partner.ID().String()
	})

	ranked := make([]*partner.Partner, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.partner
	}
	return ranked, nil
}
