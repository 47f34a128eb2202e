// Package mld implements the multi-level Dijkstra many-to-many matrix engine.
package mld

import "math"

// NodeId identifies a vertex in the compiled graph. SpecialNodeID marks "none".
type NodeId uint32

const SpecialNodeID NodeId = math.MaxUint32

// EdgeWeight is the routing cost used for tie-break ordering (e.g. generalized cost).
type EdgeWeight int64

// EdgeDuration is travel time along an edge or path, in the same integer unit as EdgeWeight ties.
type EdgeDuration int64

// EdgeDistance is geometric length, summed from unpacked edges.
type EdgeDistance float64

const (
	InvalidEdgeWeight   EdgeWeight   = math.MaxInt64
	MaximalEdgeDuration EdgeDuration = math.MaxInt64
	InvalidEdgeDistance EdgeDistance = math.MaxFloat64
)

// LevelId indexes a partition level; 0 is the base graph, higher levels are coarser.
type LevelId uint8

const InvalidLevelID LevelId = math.MaxUint8

// SegmentId names one of the two directed residuals of a phantom node.
type SegmentId struct {
	ID      NodeId
	Enabled bool
}

// Direction selects which way a search explores edges.
type Direction bool

const (
	Forward  Direction = false
	Backward Direction = true
)

func (d Direction) Reverse() Direction {
	return !d
}

// HeapData is the payload an addressable heap entry carries alongside its key.
type HeapData struct {
	Parent        NodeId
	FromCliqueArc bool
	Duration      EdgeDuration
}

// NodeBucket records that a backward, per-target search settled Node with the given cost.
// Buckets are kept in a flat list sorted by Node, then Column, for equal-range probing.
type NodeBucket struct {
	Node          NodeId
	Parent        NodeId
	FromCliqueArc bool
	Column        uint32
	Weight        EdgeWeight
	Duration      EdgeDuration
}

// PackedEdge is one hop of a reconstructed path, possibly a cell shortcut.
type PackedEdge struct {
	From          NodeId
	To            NodeId
	FromCliqueArc bool
}

// PackedPath is a packed edge sequence in traversal order, source to target.
type PackedPath []PackedEdge

// lexLess compares (weight, duration) pairs the way every tie-break in this package does.
func lexLess(w1 EdgeWeight, d1 EdgeDuration, w2 EdgeWeight, d2 EdgeDuration) bool {
	if w1 != w2 {
		return w1 < w2
	}
	return d1 < d2
}

func minLevel(a, b LevelId) LevelId {
	if a < b {
		return a
	}
	return b
}
