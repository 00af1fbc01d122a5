package services

import (
	"context"

	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// CostSummary aggregates a project's money flows.
//
// ProfitPercent is nil when no sell price is set: an undefined margin is a
// distinct state, not a reported 0%.
type CostSummary struct {
	JobsCost      float64
	MaterialCost  float64
	PurchaseCost  float64
	TransportCost float64
	TaxAmount     float64
	SellPrice     float64
	Profit        float64
	ProfitPercent *float64
	Warnings      []shared.Warning
}

// CostAggregator sums job, purchase and material costs across a plan.
type CostAggregator struct {
	stockEngine *StockEngine
}

// NewCostAggregator creates a cost aggregator.
func NewCostAggregator(stockEngine *StockEngine) *CostAggregator {
	return &CostAggregator{stockEngine: stockEngine}
}

// Summarize computes the project totals. Material cost comes from the
// shopping engine's best-price totals unless the project pins a manual
// override. Copying steps have no bill of materials and contribute no job
// cost entries.
func (a *CostAggregator) Summarize(ctx context.Context, project *industry.Project, tree *industry.Tree, prices industry.PriceFeed) (*CostSummary, error) {
	summary := &CostSummary{
		SellPrice:     project.SellPrice(),
		TransportCost: project.TransportCost(),
	}

	for _, step := range project.Steps() {
		if step.Kind() == shared.ActivityCopying {
			continue
		}
		summary.JobsCost += step.JobsCost()
		summary.PurchaseCost += step.PurchaseCost()
	}

	if override := project.MaterialCostOverride(); override != nil {
		summary.MaterialCost = *override
	} else {
		list, err := a.stockEngine.ShoppingList(ctx, project, tree, prices)
		if err != nil {
			return nil, err
		}
		for _, item := range list.Items {
			summary.MaterialCost += item.TotalPrice
		}
		summary.Warnings = append(summary.Warnings, list.Warnings...)
	}

	summary.TaxAmount = summary.SellPrice * project.TaxPercent() / 100

	summary.Profit = summary.SellPrice - (summary.JobsCost + summary.MaterialCost + summary.TransportCost + summary.TaxAmount)
	if summary.SellPrice > 0 {
		percent := summary.Profit / summary.SellPrice * 100
		summary.ProfitPercent = &percent
	}

	return summary, nil
}
