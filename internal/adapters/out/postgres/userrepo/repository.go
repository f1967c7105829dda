// Package userrepo persists staff profiles. The id of a profile is the id of
// the identity at the identity provider.
package userrepo

import (
	"context"
	"errors"

	"bakery/internal/adapters/out/postgres/pgerrs"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/domain/model/staff"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the users table.
type UserDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName        string     `gorm:"type:varchar(255);not null"`
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Role            string     `gorm:"type:varchar(16);not null;index"`
	AssignedRouteID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive        bool       `gorm:"not null;default:true"`
}

func (UserDTO) TableName() string {
	return "users"
}

// ActiveSalesmanRouteIndex keeps a route to one active salesman at a time.
// Migrate creates it after AutoMigrate.
const ActiveSalesmanRouteIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_active_salesman_route
	ON users (assigned_route_id) WHERE role = 'Salesman' AND is_active`

func conflictKey(u *staff.User) string {
	key := "email=" + u.Email()
	if id := u.AssignedRoute(); id != nil {
		key += ",assigned_route_id=" + id.String()
	}
	return key
}

func fromDomain(u *staff.User) UserDTO {
	var routeID *uuid.UUID
	if id := u.AssignedRoute(); id != nil {
		raw := id.Bytes()
		routeID = &raw
	}

	return UserDTO{
		ID:              u.ID().Bytes(),
		FullName:        u.FullName(),
		Email:           u.Email(),
		Role:            u.Role().String(),
		AssignedRouteID: routeID,
		IsActive:        u.IsActive(),
	}
}

func toDomain(dto UserDTO) (*staff.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := staff.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var routeID *kernel.UUID
	if dto.AssignedRouteID != nil {
		rID, routeErr := kernel.UUIDFromBytes(dto.AssignedRouteID[:])
		if routeErr != nil {
			return nil, routeErr
		}
		routeID = &rID
	}

	return staff.RestoreUser(id, dto.FullName, dto.Email, role, routeID, dto.IsActive)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Add(ctx context.Context, u *staff.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	dto := fromDomain(u)
	err := r.db.WithContext(ctx).Create(&dto).Error
	return pgerrs.Translate(err, "users", conflictKey(u))
}

// Update writes every editable column, including a cleared route.
func (r *GormUserRepository) Update(ctx context.Context, u *staff.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	dto := fromDomain(u)
	result := r.db.WithContext(ctx).Model(&UserDTO{}).Where("id = ?", dto.ID).
		Select("full_name", "role", "assigned_route_id", "is_active").Updates(&dto)
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "users", conflictKey(u))
	}
	if result.RowsAffected == 0 {
		return pgerrs.NotFound(gorm.ErrRecordNotFound, "user", u.ID().String())
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*staff.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, pgerrs.NotFound(err, "user", id.String())
	}
	return toDomain(dto)
}

// FindActiveSalesman returns nil, nil when no active salesman holds routeID.
func (r *GormUserRepository) FindActiveSalesman(ctx context.Context, routeID kernel.UUID) (*staff.User, error) {
	var dto UserDTO
	err := r.db.WithContext(ctx).
		Where("assigned_route_id = ? AND role = ? AND is_active = true", routeID.Bytes(), staff.Salesman.String()).
		Order("full_name").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // an unassigned route is not an error
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
