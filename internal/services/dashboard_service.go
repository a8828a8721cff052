package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"agrilink/internal/caching"
	"agrilink/internal/models"
	"agrilink/internal/repositories"
)

const dashboardCacheTTL = 5 * time.Minute

// DashboardService aggregates the admin landing-page counters.
type DashboardService interface {
	Summary(ctx context.Context) (map[string]interface{}, error)
	Refresh(ctx context.Context) error
}

type dashboardService struct {
	orderRepo       repositories.OrderRepository
	procurementRepo repositories.ProcurementRepository
	cacheSvc        caching.CacheService
}

func NewDashboardService(orderRepo repositories.OrderRepository, procurementRepo repositories.ProcurementRepository,
	cacheSvc caching.CacheService) DashboardService {
	return &dashboardService{
		orderRepo:       orderRepo,
		procurementRepo: procurementRepo,
		cacheSvc:        cacheSvc,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (map[string]interface{}, error) {
	if cached, err := s.cacheSvc.GetDashboard(ctx); err == nil && cached != nil {
		return cached, nil
	}
	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetDashboard(ctx, summary, dashboardCacheTTL); err != nil {
		log.Printf("Failed to cache dashboard: %v", err)
	}
	return summary, nil
}

func (s *dashboardService) Refresh(ctx context.Context) error {
	summary, err := s.build(ctx)
	if err != nil {
		return err
	}
	return s.cacheSvc.SetDashboard(ctx, summary, dashboardCacheTTL)
}

func (s *dashboardService) build(ctx context.Context) (map[string]interface{}, error) {
	orderCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %v", err)
	}

	open := 0
	for status, count := range orderCounts {
		if !models.TerminalOrderStatus(status) {
			open += count
		}
	}

	_, procurementTotal, err := s.procurementRepo.List(ctx, &models.ProcurementFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count procurement orders: %v", err)
	}

	return map[string]interface{}{
		"orders_by_status":   orderCounts,
		"open_orders":        open,
		"procurement_orders": procurementTotal,
		"generated_at":       time.Now().UTC(),
	}, nil
}
