package industry

import (
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// NodeIndex addresses a node inside a Tree's arena.
type NodeIndex int

// NoNode marks the absence of a node reference (e.g. the root's parent).
const NoNode NodeIndex = -1

// Node is one position in the ephemeral production tree. Buildable nodes
// carry a blueprint activity; raw-material leaves do not. Nodes live in the
// owning Tree's arena and reference each other by index, never by pointer.
// A Tree is rebuilt wholesale on every recalculation and never mutated
// afterwards, with the single exception of the stock cascade updating
// InStock on raw leaves through the engine's ledger.
type Node struct {
	ProductTypeID int64
	ProductName   string
	BlueprintID   int64
	BlueprintName string
	Kind          shared.ActivityKind

	Runs int64

	// Quantity is what the node contributes to the plan: runs * ProductPerRun
	// for buildable nodes (overproduction included), the required amount for
	// raw leaves.
	Quantity int64

	// ProductPerRun is the blueprint's per-run output of this node's product.
	// Zero for raw leaves.
	ProductPerRun int64

	// PerParentRun is the effective quantity one run of the parent consumes.
	// Zero for the root.
	PerParentRun int64

	TimeSeconds   int64 // effective time for all runs
	Depth         int
	IsRawMaterial bool
	Parent        NodeIndex
	Children      []NodeIndex
}

// Tree is an arena of production nodes. Index 0 is always the root.
type Tree struct {
	nodes []Node
}

// NewTree creates a tree seeded with the given root node.
func NewTree(root Node) *Tree {
	root.Parent = NoNode
	return &Tree{nodes: []Node{root}}
}

// Root returns the index of the root node.
func (t *Tree) Root() NodeIndex { return 0 }

// Node returns a pointer to the node at idx. The pointer stays valid only
// until the next AddChild call.
func (t *Tree) Node(idx NodeIndex) *Node { return &t.nodes[idx] }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// AddChild appends a node under parent and returns its index.
func (t *Tree) AddChild(parent NodeIndex, child Node) NodeIndex {
	child.Parent = parent
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, child)
	t.nodes[parent].Children = append(t.nodes[parent].Children, idx)
	return idx
}

// Walk visits nodes depth-first in pre-order, children in declaration order.
// This is the canonical ordering for flattening into steps.
func (t *Tree) Walk(visit func(idx NodeIndex, n *Node)) {
	t.walkFrom(t.Root(), visit)
}

func (t *Tree) walkFrom(idx NodeIndex, visit func(idx NodeIndex, n *Node)) {
	visit(idx, &t.nodes[idx])
	for _, c := range t.nodes[idx].Children {
		t.walkFrom(c, visit)
	}
}

// RawLeaves returns the indices of all raw-material leaves in pre-order.
func (t *Tree) RawLeaves() []NodeIndex {
	var leaves []NodeIndex
	t.Walk(func(idx NodeIndex, n *Node) {
		if n.IsRawMaterial {
			leaves = append(leaves, idx)
		}
	})
	return leaves
}

// FindBuildable returns the first node (pre-order) producing the given type
// at the given depth, or NoNode. Used to pair persisted steps back to tree
// positions after a rebuild.
func (t *Tree) FindBuildable(productTypeID int64, depth int) NodeIndex {
	found := NoNode
	t.Walk(func(idx NodeIndex, n *Node) {
		if found == NoNode && !n.IsRawMaterial && n.ProductTypeID == productTypeID && n.Depth == depth {
			found = idx
		}
	})
	return found
}
