package models

import (
	"encoding/json"
	"time"

	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditEntryModel is the persistence model for audit log entries.
// Rows are append-only; there is no update path.
type AuditEntryModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index"`
	Action    audit.Action   `gorm:"type:varchar(30);not null;index"`
	Resource  audit.Resource `gorm:"type:varchar(30);not null;index"`
	EntityID  string         `gorm:"type:varchar(100);index"`
	Details   string         `gorm:"type:text"`
	OldValue  []byte         `gorm:"type:jsonb"`
	NewValue  []byte         `gorm:"type:jsonb"`
	IP        string         `gorm:"type:varchar(50)"`
	UserAgent string         `gorm:"type:varchar(300)"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:        m.ID,
		UserID:    m.UserID,
		Action:    m.Action,
		Resource:  m.Resource,
		EntityID:  m.EntityID,
		Details:   m.Details,
		OldValue:  json.RawMessage(m.OldValue),
		NewValue:  json.RawMessage(m.NewValue),
		IP:        m.IP,
		UserAgent: m.UserAgent,
		CreatedAt: m.CreatedAt,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from a domain audit Entry.
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Action:    e.Action,
		Resource:  e.Resource,
		EntityID:  e.EntityID,
		Details:   e.Details,
		OldValue:  []byte(e.OldValue),
		NewValue:  []byte(e.NewValue),
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
	}
}
