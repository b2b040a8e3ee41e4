package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"cpf":        true,
	"email":      true,
}

// ServiceSortFields contains allowed sort fields for services
var ServiceSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"active":     true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"client_id":    true,
	"subtotal":     true,
	"final_amount": true,
	"date":         true,
}

// ReceivableSortFields contains allowed sort fields for receivables
var ReceivableSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"client_id":       true,
	"amount":          true,
	"received_amount": true,
	"due_date":        true,
	"status":          true,
}

// PayableSortFields contains allowed sort fields for payables
var PayableSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"description": true,
	"amount":      true,
	"due_date":    true,
	"status":      true,
	"paid_at":     true,
}

// ProcessSortFields contains allowed sort fields for processes
var ProcessSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"client_id":    true,
	"service_id":   true,
	"status":       true,
	"completed_at": true,
}

// AuditSortFields contains allowed sort fields for audit log entries
var AuditSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"action":     true,
	"resource":   true,
	"user_id":    true,
}
