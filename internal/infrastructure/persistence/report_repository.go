package persistence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/apex/backoffice/internal/domain/finance"
	"github.com/apex/backoffice/internal/domain/fulfillment"
	"github.com/apex/backoffice/internal/domain/report"
	"github.com/apex/backoffice/internal/domain/shared/valueobject"
	"gorm.io/gorm"
)

// GormReportRepository implements the report read model with aggregate
// SQL over the transactional tables. Revenue is cash-based: it sums
// active payment records, not receivable face values.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FinancialSummary returns the cash summary for the period. Nil bounds
// leave that side of the period open.
func (r *GormReportRepository) FinancialSummary(ctx context.Context, from, to *time.Time) (*report.FinancialSummary, error) {
	revenue, err := r.sumPayments(ctx, from, to)
	if err != nil {
		return nil, err
	}

	expenses, err := r.sumPaidPayables(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var overdueCents int64
	if err := r.db.WithContext(ctx).Table("receivables").
		Select("COALESCE(SUM(amount - received_amount), 0)").
		Where("status = ?", finance.ReceivableStatusOverdue).
		Scan(&overdueCents).Error; err != nil {
		return nil, err
	}

	var openCents int64
	if err := r.db.WithContext(ctx).Table("receivables").
		Select("COALESCE(SUM(amount - received_amount), 0)").
		Where("status IN ?", []finance.ReceivableStatus{finance.ReceivableStatusOpen, finance.ReceivableStatusOverdue}).
		Scan(&openCents).Error; err != nil {
		return nil, err
	}

	return &report.FinancialSummary{
		Revenue:       revenue,
		Expenses:      expenses,
		Profit:        revenue.Subtract(expenses),
		OverdueAmount: valueobject.NewMoney(overdueCents),
		OpenAmount:    valueobject.NewMoney(openCents),
	}, nil
}

// RevenueByService ranks services by billed amount across all sales
func (r *GormReportRepository) RevenueByService(ctx context.Context) ([]report.ServiceRevenue, error) {
	var rows []struct {
		ServiceName string
		TotalCents  int64
	}
	if err := r.db.WithContext(ctx).Table("sale_items si").
		Select("s.name AS service_name, COALESCE(SUM(si.total_price), 0) AS total_cents").
		Joins("JOIN services s ON s.id = si.service_id").
		Group("s.name").
		Order("total_cents DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	revenues := make([]report.ServiceRevenue, len(rows))
	for i, row := range rows {
		revenues[i] = report.ServiceRevenue{
			ServiceName: row.ServiceName,
			TotalValue:  valueobject.NewMoney(row.TotalCents),
		}
	}
	return revenues, nil
}

// Extract merges receivables and payables into one statement ordered
// by due date. Nil bounds leave that side of the period open.
func (r *GormReportRepository) Extract(ctx context.Context, from, to *time.Time) ([]report.Transaction, error) {
	var incomeRows []struct {
		ID            string
		DueDate       time.Time
		Description   string
		ClientName    string
		Cents         int64
		Status        string
		PaymentMethod string
	}
	incomeQuery := r.db.WithContext(ctx).Table("receivables r").
		Select("r.id, r.due_date, r.description, c.name AS client_name, r.amount AS cents, r.status, r.payment_method").
		Joins("JOIN clients c ON c.id = r.client_id")
	if from != nil {
		incomeQuery = incomeQuery.Where("r.due_date >= ?", *from)
	}
	if to != nil {
		incomeQuery = incomeQuery.Where("r.due_date < ?", *to)
	}
	if err := incomeQuery.Scan(&incomeRows).Error; err != nil {
		return nil, err
	}

	var expenseRows []struct {
		ID          string
		DueDate     time.Time
		Description string
		Cents       int64
		Status      string
	}
	expenseQuery := r.db.WithContext(ctx).Table("payables").
		Select("id, due_date, description, amount AS cents, status")
	if from != nil {
		expenseQuery = expenseQuery.Where("due_date >= ?", *from)
	}
	if to != nil {
		expenseQuery = expenseQuery.Where("due_date < ?", *to)
	}
	if err := expenseQuery.Scan(&expenseRows).Error; err != nil {
		return nil, err
	}

	transactions := make([]report.Transaction, 0, len(incomeRows)+len(expenseRows))
	for _, row := range incomeRows {
		transactions = append(transactions, report.Transaction{
			ID:          row.ID,
			Date:        row.DueDate,
			Description: fmt.Sprintf("RECEBIMENTO: %s (%s)", row.Description, row.ClientName),
			Amount:      valueobject.NewMoney(row.Cents),
			Type:        report.TransactionTypeIncome,
			Status:      row.Status,
			Method:      row.PaymentMethod,
		})
	}
	for _, row := range expenseRows {
		transactions = append(transactions, report.Transaction{
			ID:          row.ID,
			Date:        row.DueDate,
			Description: "DESPESA: " + row.Description,
			Amount:      valueobject.NewMoney(row.Cents),
			Type:        report.TransactionTypeExpense,
			Status:      row.Status,
			Method:      "Outros",
		})
	}
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})
	return transactions, nil
}

// DashboardStats builds the landing-page snapshot. Monetary figures
// cover the current month; counts and overdue figures are global.
func (r *GormReportRepository) DashboardStats(ctx context.Context, now time.Time) (*report.DashboardStats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	stats := &report.DashboardStats{}

	if err := r.db.WithContext(ctx).Table("clients").Count(&stats.ClientsCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("processes").
		Where("status IN ?", []fulfillment.ProcessStatus{fulfillment.ProcessStatusPending, fulfillment.ProcessStatusInProgress}).
		Count(&stats.ActiveProcesses).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("services").
		Where("active = ?", true).
		Count(&stats.TotalServices).Error; err != nil {
		return nil, err
	}

	revenue, err := r.sumPayments(ctx, &monthStart, &monthEnd)
	if err != nil {
		return nil, err
	}
	stats.Revenue = revenue

	expenses, err := r.sumPaidPayables(ctx, &monthStart, &monthEnd)
	if err != nil {
		return nil, err
	}
	stats.Expenses = expenses
	stats.Profit = revenue.Subtract(expenses)

	var toReceiveCents int64
	if err := r.db.WithContext(ctx).Table("receivables").
		Select("COALESCE(SUM(amount - received_amount), 0)").
		Where("status IN ?", []finance.ReceivableStatus{finance.ReceivableStatusOpen, finance.ReceivableStatusOverdue}).
		Where("due_date >= ? AND due_date < ?", monthStart, monthEnd).
		Scan(&toReceiveCents).Error; err != nil {
		return nil, err
	}
	stats.RevenueToReceive = valueobject.NewMoney(toReceiveCents)

	var overdueCents int64
	if err := r.db.WithContext(ctx).Table("receivables").
		Select("COALESCE(SUM(amount - received_amount), 0)").
		Where("status = ? OR (status = ? AND due_date < ?)", finance.ReceivableStatusOverdue, finance.ReceivableStatusOpen, now).
		Scan(&overdueCents).Error; err != nil {
		return nil, err
	}
	stats.OverdueAmount = valueobject.NewMoney(overdueCents)

	if err := r.db.WithContext(ctx).Table("receivables").
		Where("status = ? OR (status = ? AND due_date < ?)", finance.ReceivableStatusOverdue, finance.ReceivableStatusOpen, now).
		Count(&stats.OverdueCount).Error; err != nil {
		return nil, err
	}

	var overduePayablesCents int64
	if err := r.db.WithContext(ctx).Table("payables").
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND due_date < ?", finance.PayableStatusOpen, now).
		Scan(&overduePayablesCents).Error; err != nil {
		return nil, err
	}
	stats.OverduePayablesAmount = valueobject.NewMoney(overduePayablesCents)

	upcoming, err := r.upcomingDue(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.UpcomingDue = upcoming

	return stats, nil
}

// sumPayments sums active payment records within the period
func (r *GormReportRepository) sumPayments(ctx context.Context, from, to *time.Time) (valueobject.Money, error) {
	query := r.db.WithContext(ctx).Table("payment_records").
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", finance.PaymentRecordStatusActive)
	if from != nil {
		query = query.Where("paid_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("paid_at < ?", *to)
	}

	var cents int64
	if err := query.Scan(&cents).Error; err != nil {
		return valueobject.Zero(), err
	}
	return valueobject.NewMoney(cents), nil
}

// sumPaidPayables sums payables settled within the period
func (r *GormReportRepository) sumPaidPayables(ctx context.Context, from, to *time.Time) (valueobject.Money, error) {
	query := r.db.WithContext(ctx).Table("payables").
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", finance.PayableStatusPaid)
	if from != nil {
		query = query.Where("paid_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("paid_at < ?", *to)
	}

	var cents int64
	if err := query.Scan(&cents).Error; err != nil {
		return valueobject.Zero(), err
	}
	return valueobject.NewMoney(cents), nil
}

// upcomingDue lists open receivables due in the next seven days
func (r *GormReportRepository) upcomingDue(ctx context.Context, now time.Time) ([]report.UpcomingDue, error) {
	var rows []struct {
		ReceivableID string
		ClientName   string
		Description  string
		Cents        int64
		DueDate      time.Time
	}
	if err := r.db.WithContext(ctx).Table("receivables r").
		Select("r.id AS receivable_id, c.name AS client_name, r.description, r.amount - r.received_amount AS cents, r.due_date").
		Joins("JOIN clients c ON c.id = r.client_id").
		Where("r.status IN ?", []finance.ReceivableStatus{finance.ReceivableStatusOpen, finance.ReceivableStatusOverdue}).
		Where("r.due_date >= ? AND r.due_date < ?", now, now.AddDate(0, 0, 7)).
		Order("r.due_date ASC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	upcoming := make([]report.UpcomingDue, len(rows))
	for i, row := range rows {
		upcoming[i] = report.UpcomingDue{
			ReceivableID: row.ReceivableID,
			ClientName:   row.ClientName,
			Description:  row.Description,
			Amount:       valueobject.NewMoney(row.Cents),
			DueDate:      row.DueDate,
		}
	}
	return upcoming, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
