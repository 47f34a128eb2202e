// Package graphfacade is a concrete GraphFacade implementation over a
// compressed-sparse-row adjacency layout, adapted from the teacher's
// CSR-backed Graph type: edges are stored contiguously per node with a
// first-out offset array, and border edges (those whose endpoints disagree
// at a given level) are precomputed per level so the engine can range over
// them without re-checking cell membership in the hot loop.
package graphfacade

import (
	"github.com/kartaroute/mldmatrix/pkg/cellstore"
	"github.com/kartaroute/mldmatrix/pkg/mld"
)

type edge struct {
	to       mld.NodeId
	weight   mld.EdgeWeight
	duration mld.EdgeDuration
	distance mld.EdgeDistance
	forward  bool
	backward bool
}

// Graph is a CSR adjacency store plus the domain-stack collaborators
// (partition, cell storage) a compiled GraphFacade bundles together.
type Graph struct {
	firstOut []int32
	edges    []edge

	borderFirst map[mld.LevelId][]int32
	borderEdges map[mld.LevelId][]mld.EdgeID

	excluded []bool

	partition mld.Partition
	cells     mld.CellStorage
}

// NewGraph builds an empty CSR graph for numNodes nodes, edges supplied via
// AddEdge in node order (matching the teacher's CSR build discipline: all
// edges of node i are appended before any edge of node i+1).
func NewGraph(numNodes int, partition mld.Partition, cells mld.CellStorage) *Graph {
	return &Graph{
		firstOut:    make([]int32, numNodes+1),
		excluded:    make([]bool, numNodes),
		borderFirst: make(map[mld.LevelId][]int32),
		borderEdges: make(map[mld.LevelId][]mld.EdgeID),
		partition:   partition,
		cells:       cells,
	}
}

// AddEdge appends a directed edge from `from`. Edges must be added in
// non-decreasing `from` order; AddEdge(from+1, ...) implicitly closes
// from's adjacency range.
func (g *Graph) AddEdge(from mld.NodeId, to mld.NodeId, weight mld.EdgeWeight, duration mld.EdgeDuration, distance mld.EdgeDistance, forward, backward bool) {
	g.edges = append(g.edges, edge{to: to, weight: weight, duration: duration, distance: distance, forward: forward, backward: backward})
	for i := int(from) + 1; i < len(g.firstOut); i++ {
		g.firstOut[i] = int32(len(g.edges))
	}
}

func (g *Graph) GetNumberOfNodes() uint32 { return uint32(len(g.firstOut) - 1) }

func (g *Graph) GetMaxBorderNodeID() uint32 { return g.GetNumberOfNodes() }

func (g *Graph) GetAdjacentEdgeRange(n mld.NodeId) []mld.EdgeID {
	lo, hi := g.firstOut[n], g.firstOut[n+1]
	ids := make([]mld.EdgeID, 0, hi-lo)
	for i := lo; i < hi; i++ {
		ids = append(ids, mld.EdgeID(i))
	}
	return ids
}

func (g *Graph) GetBorderEdgeRange(level mld.LevelId, n mld.NodeId) []mld.EdgeID {
	first := g.borderFirst[level]
	all := g.borderEdges[level]
	if first == nil {
		return nil
	}
	lo, hi := first[n], first[n+1]
	return all[lo:hi]
}

func (g *Graph) GetEdgeData(e mld.EdgeID) mld.EdgeData {
	ed := g.edges[e]
	return mld.EdgeData{Forward: ed.forward, Backward: ed.backward, Weight: ed.weight, Duration: ed.duration}
}

func (g *Graph) GetTarget(e mld.EdgeID) mld.NodeId { return g.edges[e].to }

func (g *Graph) ComputeEdgeDistance(e mld.EdgeID) mld.EdgeDistance { return g.edges[e].distance }

func (g *Graph) ExcludeNode(n mld.NodeId) bool { return g.excluded[n] }

func (g *Graph) SetExcluded(n mld.NodeId, excluded bool) { g.excluded[n] = excluded }

func (g *Graph) GetMultiLevelPartition() mld.Partition { return g.partition }

func (g *Graph) GetCellStorage() mld.CellStorage { return g.cells }

// AttachCellStorage wires in a cell store built after the graph's edges and
// border-edge ranges are already in place, since cell-store construction
// itself walks the graph via Neighbors.
func (g *Graph) AttachCellStorage(cells mld.CellStorage) { g.cells = cells }

// BuildBorderEdges precomputes, for level, the CSR-style border-edge ranges:
// an edge (u, v) is a border edge at level iff u and v fall in different
// cells at that level. Must run once per level after all edges are added.
func (g *Graph) BuildBorderEdges(level mld.LevelId) {
	numNodes := len(g.firstOut) - 1
	first := make([]int32, numNodes+1)
	var ids []mld.EdgeID

	for n := 0; n < numNodes; n++ {
		node := mld.NodeId(n)
		cell := g.partition.GetCell(level, node)
		lo, hi := g.firstOut[n], g.firstOut[n+1]
		for i := lo; i < hi; i++ {
			if g.partition.GetCell(level, g.edges[i].to) != cell {
				ids = append(ids, mld.EdgeID(i))
			}
		}
		first[n+1] = int32(len(ids))
	}

	g.borderFirst[level] = first
	g.borderEdges[level] = ids
}

// Neighbors satisfies cellstore.BaseGraph, the minimal adjacency view the
// preprocessing-time clique builder walks.
func (g *Graph) Neighbors(n mld.NodeId) []cellstore.BaseGraphEdge {
	lo, hi := g.firstOut[n], g.firstOut[n+1]
	out := make([]cellstore.BaseGraphEdge, 0, hi-lo)
	for i := lo; i < hi; i++ {
		if !g.edges[i].forward {
			continue
		}
		out = append(out, cellstore.BaseGraphEdge{To: g.edges[i].to, Weight: g.edges[i].weight, Duration: g.edges[i].duration})
	}
	return out
}

var _ mld.GraphFacade = (*Graph)(nil)
var _ cellstore.BaseGraph = (*Graph)(nil)
