// Package auditrepo stores the admin audit trail. Entries are append-only.
package auditrepo

import (
	"context"
	"time"

	"campusmarket/internal/core/domain/model/audit"
	"campusmarket/internal/core/domain/model/kernel"
	"campusmarket/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntryDTO is one admin action on an order.
type AuditEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:varchar(16);not null"`
	OldStatus string    `gorm:"type:varchar(16);not null"`
	NewStatus string    `gorm:"type:varchar(16);not null"`
	Reason    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
}

func (AuditEntryDTO) TableName() string {
	return "admin_audit_log"
}

// GormAuditRepository implements AuditRepository using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Append(ctx context.Context, entry audit.Entry) error {
	dto := AuditEntryDTO{
		ID:        entry.ID().Bytes(),
		AdminID:   entry.AdminID().Bytes(),
		OrderID:   entry.OrderID().Bytes(),
		Action:    string(entry.Action()),
		OldStatus: entry.OldStatus().String(),
		NewStatus: entry.NewStatus().String(),
		Reason:    entry.Reason(),
		CreatedAt: entry.CreatedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the entries of one order, oldest first.
func (r *GormAuditRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]audit.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AuditEntryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		adminID, err := kernel.UUIDFromBytes(dto.AdminID[:])
		if err != nil {
			return nil, err
		}

		entries = append(entries, audit.RestoreEntry(
			id, adminID, orderID,
			audit.Action(dto.Action),
			order.Status(dto.OldStatus), order.Status(dto.NewStatus),
			dto.Reason, dto.CreatedAt,
		))
	}
	return entries, nil
}
