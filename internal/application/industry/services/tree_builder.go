package services

import (
	"context"
	"fmt"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// MaxTreeDepth is the hard recursion limit. Well-formed static data stays
// under ten levels; the limit guards against cyclic blueprint data.
const MaxTreeDepth = 16

// FacilityAssigner picks the assumed production facility for a node. The
// project-level default assigner returns the same profile for every
// manufacturing node and the reaction profile for reaction nodes.
type FacilityAssigner func(kind shared.ActivityKind, productTypeID int64) *blueprint.FacilityProfile

// BuildRequest carries everything one tree build needs.
type BuildRequest struct {
	ProductTypeID   int64
	Quantity        int64
	MELevel         int
	TELevel         int
	ExcludedTypeIDs map[int64]bool
	AssignFacility  FacilityAssigner
}

// BuildResult is a freshly built production tree plus any recoverable
// conditions hit along the way.
type BuildResult struct {
	Tree     *industry.Tree
	Warnings []shared.Warning
}

// TreeBuilder expands a target product and quantity into the full production
// tree, applying the efficiency calculator at every buildable node.
type TreeBuilder struct {
	catalog    blueprint.Catalog
	calculator *EfficiencyCalculator
}

// NewTreeBuilder creates a tree builder over the given catalog.
func NewTreeBuilder(catalog blueprint.Catalog, calculator *EfficiencyCalculator) *TreeBuilder {
	return &TreeBuilder{catalog: catalog, calculator: calculator}
}

// Build expands the target product into a tree. The root must be buildable;
// everything below degrades to raw-material leaves when it is excluded, has
// no producing activity, or would exceed the depth limit.
func (b *TreeBuilder) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	logger := logging.LoggerFromContext(ctx)

	activity, err := b.catalog.FindActivityProducing(req.ProductTypeID)
	if err != nil {
		return nil, shared.NewExternalTransientError("blueprint catalog", err)
	}
	if activity == nil {
		return nil, shared.NewNotFoundError("blueprint producing type", fmt.Sprintf("%d", req.ProductTypeID))
	}

	result := &BuildResult{}

	perRun := activity.ProductQuantityPerRun(req.ProductTypeID)
	runs := ceilDiv(req.Quantity, perRun)

	effective, err := b.calculator.EffectiveRun(activity, req.MELevel, req.TELevel,
		b.assignFacility(req, activity.Kind, req.ProductTypeID), b.catalog.TypeCategory(req.ProductTypeID))
	if err != nil {
		return nil, err
	}

	tree := industry.NewTree(industry.Node{
		ProductTypeID: req.ProductTypeID,
		ProductName:   b.catalog.TypeName(req.ProductTypeID),
		BlueprintID:   activity.BlueprintID,
		BlueprintName: activity.BlueprintName,
		Kind:          activity.Kind,
		Runs:          runs,
		Quantity:      runs * perRun,
		ProductPerRun: perRun,
		TimeSeconds:   effective.TimeSeconds * runs,
		Depth:         0,
	})
	result.Tree = tree

	b.expandChildren(ctx, req, result, tree.Root(), effective, runs, 1)

	logger.Log("DEBUG", "Built production tree", map[string]interface{}{
		"product_type_id": req.ProductTypeID,
		"quantity":        req.Quantity,
		"nodes":           tree.Len(),
		"warnings":        len(result.Warnings),
	})

	return result, nil
}

// expandChildren appends one node per effective material and recurses into
// buildable ones. Children follow the blueprint's declared material order so
// identical inputs always produce identical trees.
func (b *TreeBuilder) expandChildren(
	ctx context.Context,
	req BuildRequest,
	result *BuildResult,
	parent industry.NodeIndex,
	parentRun EffectiveRun,
	parentRuns int64,
	depth int,
) {
	for _, mat := range parentRun.Materials {
		needed := mat.Quantity * parentRuns
		b.expandMaterial(ctx, req, result, parent, mat, needed, depth)
	}
}

func (b *TreeBuilder) expandMaterial(
	ctx context.Context,
	req BuildRequest,
	result *BuildResult,
	parent industry.NodeIndex,
	mat blueprint.MaterialQuantity,
	quantity int64,
	depth int,
) {
	name := mat.TypeName
	if name == "" {
		name = b.catalog.TypeName(mat.TypeID)
	}

	if req.ExcludedTypeIDs[mat.TypeID] {
		result.Tree.AddChild(parent, rawLeaf(mat.TypeID, name, quantity, mat.Quantity, depth))
		return
	}

	if depth > MaxTreeDepth {
		cause := shared.NewDataIntegrityError(mat.TypeID, fmt.Sprintf("blueprint recursion exceeded depth %d; treating as raw material", MaxTreeDepth))
		result.Warnings = append(result.Warnings, shared.NewWarning(cause))
		result.Tree.AddChild(parent, rawLeaf(mat.TypeID, name, quantity, mat.Quantity, depth))
		return
	}

	activity, err := b.catalog.FindActivityProducing(mat.TypeID)
	if err != nil {
		cause := shared.NewDataIntegrityError(mat.TypeID, fmt.Sprintf("catalog lookup failed: %v; treating as raw material", err))
		result.Warnings = append(result.Warnings, shared.NewWarning(cause))
		result.Tree.AddChild(parent, rawLeaf(mat.TypeID, name, quantity, mat.Quantity, depth))
		return
	}
	if activity == nil {
		// No producing activity means a genuine raw material, not a data
		// problem.
		result.Tree.AddChild(parent, rawLeaf(mat.TypeID, name, quantity, mat.Quantity, depth))
		return
	}

	perRun := activity.ProductQuantityPerRun(mat.TypeID)
	runs := ceilDiv(quantity, perRun)

	effective, err := b.calculator.EffectiveRun(activity, req.MELevel, req.TELevel,
		b.assignFacility(req, activity.Kind, mat.TypeID), b.catalog.TypeCategory(mat.TypeID))
	if err != nil {
		result.Warnings = append(result.Warnings, shared.NewWarning(err))
		result.Tree.AddChild(parent, rawLeaf(mat.TypeID, name, quantity, mat.Quantity, depth))
		return
	}

	idx := result.Tree.AddChild(parent, industry.Node{
		ProductTypeID: mat.TypeID,
		ProductName:   name,
		BlueprintID:   activity.BlueprintID,
		BlueprintName: activity.BlueprintName,
		Kind:          activity.Kind,
		Runs:          runs,
		Quantity:      runs * perRun,
		ProductPerRun: perRun,
		PerParentRun:  mat.Quantity,
		TimeSeconds:   effective.TimeSeconds * runs,
		Depth:         depth,
	})

	b.expandChildren(ctx, req, result, idx, effective, runs, depth+1)
}

func (b *TreeBuilder) assignFacility(req BuildRequest, kind shared.ActivityKind, productTypeID int64) *blueprint.FacilityProfile {
	if req.AssignFacility == nil {
		return nil
	}
	return req.AssignFacility(kind, productTypeID)
}

func rawLeaf(typeID int64, name string, quantity, perParentRun int64, depth int) industry.Node {
	return industry.Node{
		ProductTypeID: typeID,
		ProductName:   name,
		Quantity:      quantity,
		PerParentRun:  perParentRun,
		Depth:         depth,
		IsRawMaterial: true,
	}
}

// ceilDiv returns ceil(a/b) for positive b; a of 0 yields 0 so zero-quantity
// nodes keep their place in the tree.
func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
