package report

import (
	"context"
	"time"

	"github.com/apex/backoffice/internal/domain/shared/valueobject"
)

// FinancialSummary is the cash view over a period: revenue comes from
// payment records (money that actually arrived), expenses from paid
// payables (money that actually left).
type FinancialSummary struct {
	Revenue       valueobject.Money `json:"revenue"`
	Expenses      valueobject.Money `json:"expenses"`
	Profit        valueobject.Money `json:"profit"`
	OverdueAmount valueobject.Money `json:"overdue_amount"`
	OpenAmount    valueobject.Money `json:"open_amount"`
}

// ServiceRevenue ranks one service by billed amount
type ServiceRevenue struct {
	ServiceName string            `json:"service_name"`
	TotalValue  valueobject.Money `json:"total_value"`
}

// DashboardStats is the landing-page snapshot for the current month
type DashboardStats struct {
	ClientsCount          int64             `json:"clients_count"`
	ActiveProcesses       int64             `json:"active_processes"`
	TotalServices         int64             `json:"total_services"`
	Revenue               valueobject.Money `json:"revenue"`
	RevenueToReceive      valueobject.Money `json:"revenue_to_receive"`
	Expenses              valueobject.Money `json:"expenses"`
	Profit                valueobject.Money `json:"profit"`
	OverdueAmount         valueobject.Money `json:"overdue_amount"`
	OverduePayablesAmount valueobject.Money `json:"overdue_payables_amount"`
	OverdueCount          int64             `json:"overdue_count"`
	UpcomingDue           []UpcomingDue     `json:"upcoming_due"`
}

// TransactionType tells income and expense lines apart in the extract
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Transaction is one line of the unified financial extract:
// receivables and payables merged into a single date-ordered statement
type Transaction struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date"`
	Description string            `json:"description"`
	Amount      valueobject.Money `json:"amount"`
	Type        TransactionType   `json:"type"`
	Status      string            `json:"status"`
	Method      string            `json:"method"`
}

// UpcomingDue is an open receivable due soon
type UpcomingDue struct {
	ReceivableID string            `json:"receivable_id"`
	ClientName   string            `json:"client_name"`
	Description  string            `json:"description"`
	Amount       valueobject.Money `json:"amount"`
	DueDate      time.Time         `json:"due_date"`
}

// Repository is the read-model port backing reports and the dashboard.
// Implementations run aggregate SQL directly; these are projections,
// not aggregates.
type Repository interface {
	FinancialSummary(ctx context.Context, from, to *time.Time) (*FinancialSummary, error)
	RevenueByService(ctx context.Context) ([]ServiceRevenue, error)
	Extract(ctx context.Context, from, to *time.Time) ([]Transaction, error)
	DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error)
}
