package service

import (
	"context"
	"sort"

	"go-hpp-engine/internal/costing"

	"github.com/google/uuid"
)

// DashboardStats is the owner-wide HPP overview.
type DashboardStats struct {
	ProductCount     int                    `json:"product_count"`
	CostedCount      int                    `json:"costed_count"`
	UnavailableCount int                    `json:"unavailable_count"`
	PricedCount      int                    `json:"priced_count"`
	BySource         map[costing.Source]int `json:"by_source"`
	ByRisk           map[costing.Risk]int   `json:"by_risk"`
	AverageUnitCost  *float64               `json:"average_unit_cost"`
	AverageMarginPct *float64               `json:"average_margin_pct"`
}

// MarginEntry is one priced product ranked by margin.
type MarginEntry struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitCost    float64      `json:"unit_cost"`
	Price       float64      `json:"selling_price"`
	MarginPct   float64      `json:"margin_pct"`
	Risk        costing.Risk `json:"risk"`
}

type DashboardService interface {
	GetDashboardStats(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error)
	GetLowestMargins(ctx context.Context, ownerID uuid.UUID, limit int) ([]MarginEntry, error)
}

type dashboardService struct {
	hpp  HppService
	risk costing.RiskThresholds
}

func NewDashboardService(hpp HppService, risk costing.RiskThresholds) DashboardService {
	return &dashboardService{hpp: hpp, risk: risk}
}

func (s *dashboardService) GetDashboardStats(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error) {
	reports, err := s.hpp.ListProductCosts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		ProductCount: len(reports),
		BySource:     map[costing.Source]int{},
		ByRisk:       map[costing.Risk]int{},
	}
	var costSum, marginSum float64
	for _, r := range reports {
		stats.BySource[r.Source]++
		if r.Total == nil {
			stats.UnavailableCount++
			continue
		}
		stats.CostedCount++
		costSum += *r.Total
		if r.Evaluation != nil {
			stats.PricedCount++
			marginSum += r.Evaluation.MarginPct
			stats.ByRisk[s.risk.Classify(r.Evaluation.MarginPct)]++
		}
	}
	if stats.CostedCount > 0 {
		avg := costSum / float64(stats.CostedCount)
		stats.AverageUnitCost = &avg
	}
	if stats.PricedCount > 0 {
		avg := marginSum / float64(stats.PricedCount)
		stats.AverageMarginPct = &avg
	}
	return stats, nil
}

// GetLowestMargins lists priced products from the thinnest margin up.
func (s *dashboardService) GetLowestMargins(ctx context.Context, ownerID uuid.UUID, limit int) ([]MarginEntry, error) {
	reports, err := s.hpp.ListProductCosts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	entries := make([]MarginEntry, 0, len(reports))
	for _, r := range reports {
		if r.Evaluation == nil {
			continue
		}
		entries = append(entries, MarginEntry{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitCost:    r.Evaluation.UnitCost,
			Price:       r.Evaluation.SellingPrice,
			MarginPct:   r.Evaluation.MarginPct,
			Risk:        s.risk.Classify(r.Evaluation.MarginPct),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].MarginPct < entries[j].MarginPct })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
