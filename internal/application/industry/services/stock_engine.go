package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ShoppingStatus summarizes how far sourcing of one material has come.
type ShoppingStatus string

const (
	ShoppingStatusOK      ShoppingStatus = "OK"
	ShoppingStatusPartial ShoppingStatus = "PARTIAL"
	ShoppingStatusMissing ShoppingStatus = "MISSING"
)

// ShoppingListItem is one raw material on the derived shopping list.
type ShoppingListItem struct {
	TypeID            int64
	TypeName          string
	Quantity          int64
	InStockQuantity   int64
	PurchasedQuantity int64
	MissingQuantity   int64
	BestUnitPrice     float64
	BestLocationKind  industry.PriceLocationKind
	TotalPrice        float64
	TotalVolume       float64
	Status            ShoppingStatus
}

// ShoppingListResult is the list plus warnings from degraded price lookups.
type ShoppingListResult struct {
	Items    []ShoppingListItem
	Warnings []shared.Warning
}

// StockLine is one parsed line of a free-text inventory paste.
type StockLine struct {
	Name     string
	Quantity int64
}

// StockEngine maintains in-stock quantities across the plan and derives the
// shopping list of missing raw materials.
type StockEngine struct {
	catalog blueprint.Catalog
	ledger  industry.StockLedgerRepository
}

// NewStockEngine creates a stock engine.
func NewStockEngine(catalog blueprint.Catalog, ledger industry.StockLedgerRepository) *StockEngine {
	return &StockEngine{catalog: catalog, ledger: ledger}
}

// ApplyStock sets a step's in-stock quantity (clamped to its requirement)
// and cascades any positive delta proportionally down through the step's
// subtree in the given tree. Buildable descendants update their persisted
// steps; raw leaves update the project's stock ledger. Applying the same
// value twice is a no-op the second time.
func (e *StockEngine) ApplyStock(ctx context.Context, project *industry.Project, tree *industry.Tree, stepID string, newInStock int64) error {
	step := project.Step(stepID)
	if step == nil {
		return shared.NewNotFoundError("step", stepID)
	}
	if step.IsRoot() && newInStock > 0 {
		return shared.NewInvalidArgumentError("inStockQuantity", "a root step cannot carry stock")
	}

	old := step.InStockQuantity()
	if err := step.SetInStock(newInStock); err != nil {
		return err
	}
	delta := step.InStockQuantity() - old
	if delta <= 0 {
		return nil
	}

	node := tree.FindBuildable(step.ProductTypeID(), step.Depth())
	if node == industry.NoNode {
		// Manual steps have no tree position; nothing to cascade into.
		return nil
	}

	if err := e.cascade(ctx, project, tree, node, delta); err != nil {
		return err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Applied stock with cascade", map[string]interface{}{
		"step_id": stepID,
		"value":   newInStock,
		"delta":   delta,
	})
	return nil
}

// cascade pushes a positive parent delta (units of the parent product) into
// the direct children of the tree node and recurses with whatever each
// child actually absorbed.
func (e *StockEngine) cascade(ctx context.Context, project *industry.Project, tree *industry.Tree, parentIdx industry.NodeIndex, parentDelta int64) error {
	parent := tree.Node(parentIdx)
	perRunOut := parent.ProductPerRun
	if perRunOut <= 0 {
		return nil
	}

	for _, childIdx := range parent.Children {
		child := tree.Node(childIdx)
		childDelta := int64(math.Ceil(float64(parentDelta) * float64(child.PerParentRun) / float64(perRunOut)))
		if childDelta <= 0 {
			continue
		}

		if child.IsRawMaterial {
			if err := e.raiseLedger(ctx, project, tree, child, childDelta); err != nil {
				return err
			}
			continue
		}

		applied := e.raiseStepStock(project, child, childDelta)
		if applied <= 0 {
			continue
		}
		if err := e.cascade(ctx, project, tree, childIdx, applied); err != nil {
			return err
		}
	}
	return nil
}

// raiseStepStock distributes a delta across the persisted steps at the
// child's tree position, split siblings in split order, and returns the
// total actually absorbed.
func (e *StockEngine) raiseStepStock(project *industry.Project, child *industry.Node, delta int64) int64 {
	var applied int64
	for _, s := range project.Steps() {
		if delta <= 0 {
			break
		}
		if s.ProductTypeID() != child.ProductTypeID || s.Depth() != child.Depth {
			continue
		}
		raised := s.RaiseInStock(delta)
		applied += raised
		delta -= raised
	}
	return applied
}

// raiseLedger raises the project's raw-material ledger. A ledger entry is
// shared by every leaf consuming the material, so the raise is bounded by
// the material's total requirement across the whole tree, and the recorded
// value never moves down.
func (e *StockEngine) raiseLedger(ctx context.Context, project *industry.Project, tree *industry.Tree, leaf *industry.Node, delta int64) error {
	entries, err := e.ledger.FindByProject(ctx, project.ID())
	if err != nil {
		return err
	}
	key := NormalizeTypeName(leaf.ProductName)
	var current int64
	for _, entry := range entries {
		if entry.NormalizedName == key {
			current = entry.Quantity
			break
		}
	}
	next := current + delta
	if total := rawRequirement(tree, key); next > total {
		next = total
	}
	if next <= current {
		return nil
	}
	return e.ledger.Upsert(ctx, industry.StockLedgerEntry{
		ProjectID:      project.ID(),
		NormalizedName: key,
		TypeID:         leaf.ProductTypeID,
		Quantity:       next,
	})
}

// ImportStock applies parsed inventory lines to the project's raw-material
// ledger, matching by case-insensitive name. Lines naming unknown types are
// reported as warnings.
func (e *StockEngine) ImportStock(ctx context.Context, project *industry.Project, tree *industry.Tree, lines []StockLine) ([]shared.Warning, error) {
	byName := make(map[string]*industry.Node)
	for _, idx := range tree.RawLeaves() {
		n := tree.Node(idx)
		byName[NormalizeTypeName(n.ProductName)] = n
	}

	var warnings []shared.Warning
	for _, line := range lines {
		key := NormalizeTypeName(line.Name)
		leaf, ok := byName[key]
		if !ok {
			warnings = append(warnings, shared.Warning{
				Message: fmt.Sprintf("stock line %q does not match any material in the plan", line.Name),
			})
			continue
		}
		if err := e.ledger.Upsert(ctx, industry.StockLedgerEntry{
			ProjectID:      project.ID(),
			NormalizedName: key,
			TypeID:         leaf.ProductTypeID,
			Quantity:       minInt64(line.Quantity, rawRequirement(tree, key)),
		}); err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

// ShoppingList aggregates all raw-material leaves of the tree, subtracts
// ledger stock and recorded purchases, and prices the remainder with the
// most expensive available quote. The max is deliberate: until a cheaper
// purchase is actually committed, the conservative quote is the honest
// acquisition estimate.
func (e *StockEngine) ShoppingList(ctx context.Context, project *industry.Project, tree *industry.Tree, prices industry.PriceFeed) (*ShoppingListResult, error) {
	type aggregate struct {
		typeID   int64
		name     string
		quantity int64
	}

	totals := make(map[string]*aggregate)
	var order []string
	for _, idx := range tree.RawLeaves() {
		n := tree.Node(idx)
		key := NormalizeTypeName(n.ProductName)
		agg, ok := totals[key]
		if !ok {
			agg = &aggregate{typeID: n.ProductTypeID, name: n.ProductName}
			totals[key] = agg
			order = append(order, key)
		}
		agg.quantity += n.Quantity
	}

	ledgerEntries, err := e.ledger.FindByProject(ctx, project.ID())
	if err != nil {
		return nil, err
	}
	stockByName := make(map[string]int64, len(ledgerEntries))
	for _, entry := range ledgerEntries {
		stockByName[entry.NormalizedName] = entry.Quantity
	}

	purchasedByType := make(map[int64]int64)
	for _, step := range project.Steps() {
		for _, p := range step.Purchases() {
			purchasedByType[p.TypeID()] += p.Quantity()
		}
	}

	result := &ShoppingListResult{Items: make([]ShoppingListItem, 0, len(order))}

	for _, key := range order {
		agg := totals[key]
		item := ShoppingListItem{
			TypeID:            agg.typeID,
			TypeName:          agg.name,
			Quantity:          agg.quantity,
			InStockQuantity:   minInt64(stockByName[key], agg.quantity),
			PurchasedQuantity: purchasedByType[agg.typeID],
			TotalVolume:       float64(agg.quantity) * e.catalog.TypeVolume(agg.typeID),
		}

		item.MissingQuantity = agg.quantity - item.InStockQuantity - item.PurchasedQuantity
		if item.MissingQuantity < 0 {
			item.MissingQuantity = 0
		}

		covered := item.InStockQuantity + item.PurchasedQuantity
		switch {
		case covered >= item.Quantity:
			item.Status = ShoppingStatusOK
		case covered > 0:
			item.Status = ShoppingStatusPartial
		default:
			item.Status = ShoppingStatusMissing
		}

		if prices != nil {
			quotes, err := prices.QuotesFor(agg.typeID)
			if err != nil {
				result.Warnings = append(result.Warnings, shared.NewWarning(
					shared.NewExternalTransientError("price feed", err)))
			} else {
				for _, q := range quotes {
					if q.UnitPrice > item.BestUnitPrice {
						item.BestUnitPrice = q.UnitPrice
						item.BestLocationKind = q.LocationKind
					}
				}
			}
		}
		item.TotalPrice = item.BestUnitPrice * float64(item.MissingQuantity)

		result.Items = append(result.Items, item)
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].TypeName < result.Items[j].TypeName
	})

	return result, nil
}

// ParseStockText tokenizes a free-text inventory paste. Per line, in
// priority order: tab-separated name and quantity, trailing number, whole
// line as one item with quantity 1. Lines parsing to a non-positive
// quantity are skipped. Nothing parseable yields an empty list, never an
// error.
func ParseStockText(text string) []StockLine {
	var lines []StockLine
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}

		if name, qty, ok := parseTabSeparated(line); ok {
			if qty > 0 {
				lines = append(lines, StockLine{Name: name, Quantity: qty})
			}
			continue
		}

		if name, qty, ok := parseTrailingNumber(line); ok {
			if qty > 0 {
				lines = append(lines, StockLine{Name: name, Quantity: qty})
			}
			continue
		}

		lines = append(lines, StockLine{Name: line, Quantity: 1})
	}
	return lines
}

func parseTabSeparated(line string) (string, int64, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return "", 0, false
	}
	name := strings.TrimSpace(parts[0])
	qty, ok := parseQuantity(strings.TrimSpace(parts[1]))
	if name == "" || !ok {
		return "", 0, false
	}
	return name, qty, true
}

func parseTrailingNumber(line string) (string, int64, bool) {
	idx := strings.LastIndexByte(line, ' ')
	if idx <= 0 {
		return "", 0, false
	}
	qty, ok := parseQuantity(line[idx+1:])
	if !ok {
		return "", 0, false
	}
	name := strings.TrimSpace(line[:idx])
	if name == "" {
		return "", 0, false
	}
	return name, qty, true
}

// parseQuantity accepts plain integers with optional thousands separators
// the game client inserts into copied inventory text.
func parseQuantity(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	var qty int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		qty = qty*10 + int64(r-'0')
	}
	return qty, true
}

// NormalizeTypeName is the case-insensitive key used for ledger and
// shopping-list matching.
func NormalizeTypeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// rawRequirement sums the total requirement for a raw material across every
// leaf of the tree that consumes it.
func rawRequirement(tree *industry.Tree, key string) int64 {
	var total int64
	for _, idx := range tree.RawLeaves() {
		n := tree.Node(idx)
		if NormalizeTypeName(n.ProductName) == key {
			total += n.Quantity
		}
	}
	return total
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
