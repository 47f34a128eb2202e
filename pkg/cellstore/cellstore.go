// Package cellstore is a concrete CellStorage implementation, adapted from
// the per-cell "clique" shortcut tables of customizable route planning
// preprocessing (Delling, Goldberg, Pajor, Werneck, "Customizable Route
// Planning in Road Networks", §4): every cell at level >= 1 carries a dense
// boundary-to-boundary cost matrix, queried one row at a time by whichever
// boundary node the search is currently relaxing from.
package cellstore

import "github.com/kartaroute/mldmatrix/pkg/mld"

// cellData is a dense |boundary| x |boundary| matrix of shortest in-cell
// costs between every pair of the cell's boundary nodes, indexed by row
// (entry node) and aligned column-wise with boundary itself.
type cellData struct {
	boundary    []mld.NodeId
	outWeight   map[mld.NodeId][]mld.EdgeWeight
	outDuration map[mld.NodeId][]mld.EdgeDuration
	inWeight    map[mld.NodeId][]mld.EdgeWeight
	inDuration  map[mld.NodeId][]mld.EdgeDuration
}

func newCellData(boundary []mld.NodeId) *cellData {
	return &cellData{
		boundary:    boundary,
		outWeight:   make(map[mld.NodeId][]mld.EdgeWeight, len(boundary)),
		outDuration: make(map[mld.NodeId][]mld.EdgeDuration, len(boundary)),
		inWeight:    make(map[mld.NodeId][]mld.EdgeWeight, len(boundary)),
		inDuration:  make(map[mld.NodeId][]mld.EdgeDuration, len(boundary)),
	}
}

func (c *cellData) GetDestinationNodes() []mld.NodeId { return c.boundary }
func (c *cellData) GetSourceNodes() []mld.NodeId       { return c.boundary }

func (c *cellData) GetOutWeight(node mld.NodeId) []mld.EdgeWeight     { return c.outWeight[node] }
func (c *cellData) GetOutDuration(node mld.NodeId) []mld.EdgeDuration { return c.outDuration[node] }
func (c *cellData) GetInWeight(node mld.NodeId) []mld.EdgeWeight      { return c.inWeight[node] }
func (c *cellData) GetInDuration(node mld.NodeId) []mld.EdgeDuration  { return c.inDuration[node] }

var _ mld.Cell = (*cellData)(nil)

type cellKey struct {
	level mld.LevelId
	cell  mld.CellID
}

// CellStorage holds the precomputed shortcut matrix of every cell at every
// level >= 1. It is read-only once built and shared across query workers
// without synchronisation, as the engine's concurrency model requires.
type CellStorage struct {
	cells map[cellKey]*cellData
}

func NewCellStorage() *CellStorage {
	return &CellStorage{cells: make(map[cellKey]*cellData)}
}

func (s *CellStorage) GetCell(level mld.LevelId, cell mld.CellID) (mld.Cell, bool) {
	c, ok := s.cells[cellKey{level, cell}]
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *CellStorage) set(level mld.LevelId, cell mld.CellID, c *cellData) {
	s.cells[cellKey{level, cell}] = c
}

var _ mld.CellStorage = (*CellStorage)(nil)
