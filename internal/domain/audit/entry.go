package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action is what happened
type Action string

const (
	ActionCreate        Action = "CREATE"
	ActionUpdate        Action = "UPDATE"
	ActionDelete        Action = "DELETE"
	ActionLogin         Action = "LOGIN"
	ActionLoginFailed   Action = "LOGIN_FAILED"
	ActionSystemWebhook Action = "SYSTEM_WEBHOOK"
)

// Resource is what it happened to
type Resource string

const (
	ResourceClient     Resource = "CLIENT"
	ResourceService    Resource = "SERVICE"
	ResourceSale       Resource = "SALE"
	ResourceReceivable Resource = "RECEIVABLE"
	ResourcePayable    Resource = "PAYABLE"
	ResourceProcess    Resource = "PROCESS"
	ResourceCategory   Resource = "EXPENSE_CATEGORY"
	ResourceUser       Resource = "USER"
	ResourceSession    Resource = "SESSION"
)

// Entry is one immutable audit log line. UserID is nil for actions
// taken by the system itself, e.g. webhook-driven reconciliation.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Action    Action          `json:"action"`
	Resource  Resource        `json:"resource"`
	EntityID  string          `json:"entity_id,omitempty"`
	Details   string          `json:"details,omitempty"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	IP        string          `json:"ip,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEntry creates an audit entry stamped with the current time
func NewEntry(userID *uuid.UUID, action Action, resource Resource, entityID, details string) *Entry {
	return &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now(),
	}
}

// WithValues attaches before/after snapshots
func (e *Entry) WithValues(oldValue, newValue json.RawMessage) *Entry {
	e.OldValue = oldValue
	e.NewValue = newValue
	return e
}

// WithRequestInfo attaches the caller's network identity
func (e *Entry) WithRequestInfo(ip, userAgent string) *Entry {
	e.IP = ip
	e.UserAgent = userAgent
	return e
}
