package report

import (
	"context"
	"time"

	"github.com/apex/backoffice/internal/domain/report"
)

// Service exposes the read models backing reports and the dashboard
type Service struct {
	repo report.Repository
}

// NewService creates a new report Service
func NewService(repo report.Repository) *Service {
	return &Service{repo: repo}
}

// FinancialSummary returns the cash view for an optional period
func (s *Service) FinancialSummary(ctx context.Context, from, to *time.Time) (*report.FinancialSummary, error) {
	return s.repo.FinancialSummary(ctx, from, to)
}

// RevenueByService ranks services by billed amount
func (s *Service) RevenueByService(ctx context.Context) ([]report.ServiceRevenue, error) {
	return s.repo.RevenueByService(ctx)
}

// Extract returns the unified income and expense statement for an
// optional period, ordered by due date
func (s *Service) Extract(ctx context.Context, from, to *time.Time) ([]report.Transaction, error) {
	return s.repo.Extract(ctx, from, to)
}

// Dashboard returns the landing-page snapshot for the current month
func (s *Service) Dashboard(ctx context.Context) (*report.DashboardStats, error) {
	return s.repo.DashboardStats(ctx, time.Now())
}
