package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on SQLite.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	row := auditRow{
		Type:       string(event.Type),
		UserID:     event.UserID,
		Email:      event.Email,
		Outcome:    event.Outcome,
		OccurredAt: event.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// CountByType returns how many events of type t were recorded.
func (r *AuditRepository) CountByType(ctx context.Context, t domain.AuditEventType) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&auditRow{}).Where("type = ?", string(t)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}
