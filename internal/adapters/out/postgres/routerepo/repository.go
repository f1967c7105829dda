// Package routerepo persists delivery routes.
package routerepo

import (
	"context"
	"strconv"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/route"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RouteDTO is the routes table. Route numbers are unique.
type RouteDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteNumber int       `gorm:"type:int;not null;uniqueIndex"`
	RouteName   string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true"`
}

func (RouteDTO) TableName() string {
	return "routes"
}

func fromDomain(r *route.Route) RouteDTO {
	return RouteDTO{
		ID:          r.ID().Bytes(),
		RouteNumber: r.Number(),
		RouteName:   r.Name(),
		Description: r.Description(),
		IsActive:    r.IsActive(),
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return route.RestoreRoute(id, dto.RouteNumber, dto.RouteName, dto.Description, dto.IsActive)
}

type GormRouteRepository struct {
	db *gorm.DB
}

func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "routes", "route_number="+strconv.Itoa(aggregate.Number()))
}

func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RouteDTO{}).Where("id = ?", dto.ID).
		Select("route_name", "description", "is_active").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pgerrs.NotFound(gorm.ErrRecordNotFound, "route", aggregate.ID().String())
	}
	return nil
}

func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.NotFound(err, "route", id.String())
	}
	return toDomain(dto)
}
