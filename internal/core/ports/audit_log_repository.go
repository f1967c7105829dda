package ports

import (
	"context"

	"bakery/internal/core/domain/model/audit"
)

// AuditLogRepository appends audit entries. There is no update or delete.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *audit.Entry) error
}
