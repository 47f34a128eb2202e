// Package partition is a concrete Partition implementation, adapted from
// the bit-packed multi-level partition used by customizable route planning
// preprocessing: every node's cell id at every level is packed into a single
// integer, with per-level bit offsets computed from each level's cell count.
package partition

import (
	"math"

	"github.com/kartaroute/mldmatrix/pkg/mld"
)

// packedCell is the fixed-width integer every node's per-level cell ids are
// packed into, one bitfield per level.
type packedCell = uint64

// MultiLevelPartition implements mld.Partition over a bit-packed cell table.
type MultiLevelPartition struct {
	numCellsPerLevel []uint32
	offsets          []uint8 // offsets[0] = 0; level l's field spans offsets[l-1]..offsets[l]
	cellNumber       []packedCell
}

// NewMultiLevelPartition builds an empty partition for numNodes nodes over
// numCellsPerLevel, one entry per level from finest (level 1) to coarsest.
// Level 0 is the ungrouped base graph and carries no cell table.
func NewMultiLevelPartition(numNodes int, numCellsPerLevel []uint32) *MultiLevelPartition {
	p := &MultiLevelPartition{
		numCellsPerLevel: numCellsPerLevel,
		cellNumber:       make([]packedCell, numNodes),
	}
	p.computeOffsets()
	return p
}

func (p *MultiLevelPartition) computeOffsets() {
	p.offsets = make([]uint8, len(p.numCellsPerLevel)+1)
	for i, n := range p.numCellsPerLevel {
		bits := uint8(0)
		if n > 1 {
			bits = uint8(math.Ceil(math.Log2(float64(n))))
		}
		p.offsets[i+1] = p.offsets[i] + bits
	}
}

// SetCell assigns node's cell id at level (1-indexed into numCellsPerLevel).
func (p *MultiLevelPartition) SetCell(level mld.LevelId, node mld.NodeId, cell mld.CellID) {
	shift := p.offsets[level-1]
	p.cellNumber[node] |= packedCell(cell) << shift
}

func (p *MultiLevelPartition) GetCell(level mld.LevelId, node mld.NodeId) mld.CellID {
	if level == 0 {
		return mld.CellID(node)
	}
	lo, hi := p.offsets[level-1], p.offsets[level]
	mask := ^(^packedCell(0) << (hi - lo))
	return mld.CellID((p.cellNumber[node] >> lo) & mask)
}

// GetHighestDifferentLevel returns the coarsest level at which a and b still
// disagree, by finding the highest set bit of the XOR of their packed cell
// numbers and mapping it back to a level through the offset table.
func (p *MultiLevelPartition) GetHighestDifferentLevel(a, b mld.NodeId) mld.LevelId {
	diff := p.cellNumber[a] ^ p.cellNumber[b]
	if diff == 0 {
		return 0
	}
	for l := len(p.numCellsPerLevel); l > 0; l-- {
		if diff>>p.offsets[l-1] > 0 {
			return mld.LevelId(l)
		}
	}
	return 0
}

func (p *MultiLevelPartition) GetNumberOfLevels() int {
	return len(p.numCellsPerLevel) + 1
}
