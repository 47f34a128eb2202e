package mld

// EdgeID identifies a directed edge in the compiled graph's adjacency storage.
type EdgeID uint32

// CellID identifies a cell at a given partition level.
type CellID uint32

// EdgeData is the attribute bundle the facade exposes for one edge.
type EdgeData struct {
	Forward  bool
	Backward bool
	Weight   EdgeWeight
	Duration EdgeDuration
}

// GraphFacade is the read-only view over the compiled graph. It is the boundary
// to graph ingestion and compilation, which this package does not implement.
type GraphFacade interface {
	GetNumberOfNodes() uint32
	GetMaxBorderNodeID() uint32

	GetAdjacentEdgeRange(n NodeId) []EdgeID
	GetBorderEdgeRange(level LevelId, n NodeId) []EdgeID

	GetEdgeData(e EdgeID) EdgeData
	GetTarget(e EdgeID) NodeId

	// ComputeEdgeDistance returns the geometric length of e, used while summing
	// distances along an unpacked path.
	ComputeEdgeDistance(e EdgeID) EdgeDistance

	ExcludeNode(n NodeId) bool

	GetMultiLevelPartition() Partition
	GetCellStorage() CellStorage
}

// Partition is the hierarchical partition boundary: which cell a node belongs
// to at a level, and the highest level at which two nodes still disagree.
type Partition interface {
	GetCell(level LevelId, n NodeId) CellID
	GetHighestDifferentLevel(a, b NodeId) LevelId
	GetNumberOfLevels() int
}

// Cell is one cell's shortcut table at a given level: a dense matrix over the
// cell's boundary nodes. GetDestinationNodes/GetSourceNodes return the shared
// column layout (every boundary node of the cell); GetOutWeight(node) and
// friends return node's own row, positionally aligned with that column
// layout, i.e. GetOutWeight(node)[i] is the precomputed cost from node to
// GetDestinationNodes()[i] through this cell alone.
type Cell interface {
	GetDestinationNodes() []NodeId
	GetSourceNodes() []NodeId
	GetOutWeight(node NodeId) []EdgeWeight
	GetOutDuration(node NodeId) []EdgeDuration
	GetInWeight(node NodeId) []EdgeWeight
	GetInDuration(node NodeId) []EdgeDuration
}

// CellStorage answers GetCell for any (level, cell) pair that has a shortcut
// table, i.e. level >= 1.
type CellStorage interface {
	GetCell(level LevelId, cell CellID) (Cell, bool)
}

// Unpacker turns a PackedPath into the real node/edge sequence it summarises,
// recursively resolving any cell-shortcut hop into the real edges the
// preprocessing step found inside that cell.
type Unpacker interface {
	UnpackPath(facade GraphFacade, path PackedPath) ([]NodeId, []EdgeID, error)
}
