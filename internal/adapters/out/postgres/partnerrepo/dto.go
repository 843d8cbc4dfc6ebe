// Package partnerrepo persists partner aggregates with GORM.
package partnerrepo

import (
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO is the row shape of the partners table.
type PartnerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name        string    `gorm:"not null"`
	Address     string    `gorm:"not null;default:''"`
	Lat         float64   `gorm:"not null"`
	Lng         float64   `gorm:"not null"`
	Capacity    int       `gorm:"not null"`
	CurrentLoad int       `gorm:"not null;default:0"`
	Rating      float64   `gorm:"not null;default:0"`
	IsVerified  bool      `gorm:"not null;default:false"`
}

func (PartnerDTO) TableName() string {
	return "partners"
}

func fromDomain(p *partner.Partner) PartnerDTO {
	return PartnerDTO{
		ID:          p.ID().Bytes(),
		UserID:      p.UserID().Bytes(),
		Name:        p.Name(),
		Address:     p.Address(),
		Lat:         p.Location().Lat(),
		Lng:         p.Location().Lng(),
		Capacity:    p.Capacity(),
		CurrentLoad: p.CurrentLoad(),
		Rating:      p.Rating(),
		IsVerified:  p.IsVerified(),
	}
}

func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	return partner.RestorePartner(
		id,
		userID,
		dto.Name,
		dto.Address,
		location,
		dto.Capacity,
		dto.CurrentLoad,
		dto.Rating,
		dto.IsVerified,
	)
}
