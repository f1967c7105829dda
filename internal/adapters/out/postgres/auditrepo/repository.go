// Package auditrepo appends audit_logs rows. Rows are never updated or deleted.
package auditrepo

import (
	"context"
	"encoding/json"
	"time"

	"bakery/internal/core/domain/model/audit"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogDTO is the audit_logs table. Old and new values are JSONB snapshots.
type AuditLogDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index"`
	Action    string         `gorm:"type:varchar(64);not null;index"`
	Table     string         `gorm:"column:table_name;type:varchar(64);not null"`
	RecordID  *uuid.UUID     `gorm:"type:uuid;index"`
	OldValues datatypes.JSON `gorm:"type:jsonb"`
	NewValues datatypes.JSON `gorm:"type:jsonb"`
	IPAddress string         `gorm:"type:varchar(64)"`
	UserAgent string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"type:timestamptz;not null;index"`
}

func (AuditLogDTO) TableName() string {
	return "audit_logs"
}

type GormAuditLogRepository struct {
	db *gorm.DB
}

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Append(ctx context.Context, entry *audit.Entry) error {
	oldValues, err := marshalValues(entry.OldValues())
	if err != nil {
		return err
	}
	newValues, err := marshalValues(entry.NewValues())
	if err != nil {
		return err
	}

	dto := AuditLogDTO{
		ID:        entry.ID().Bytes(),
		Action:    entry.Action(),
		Table:     entry.TableName(),
		OldValues: oldValues,
		NewValues: newValues,
		IPAddress: entry.Client().IPAddress,
		UserAgent: entry.Client().UserAgent,
		CreatedAt: entry.CreatedAt(),
	}
	if id := entry.UserID(); id != nil {
		raw := id.Bytes()
		dto.UserID = &raw
	}
	if id := entry.RecordID(); id != nil {
		raw := id.Bytes()
		dto.RecordID = &raw
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

func marshalValues(values audit.Values) (datatypes.JSON, error) {
	if values == nil {
		return nil, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
