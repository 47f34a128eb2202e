package cellstore

import (
	"container/heap"

	"github.com/kartaroute/mldmatrix/pkg/concurrent"
	"github.com/kartaroute/mldmatrix/pkg/mld"
)

// BaseGraphEdge is one directed edge out of a node in the preprocessing-time
// graph view the clique builder walks; it is deliberately smaller than the
// query-time mld.GraphFacade because preprocessing never needs border-edge
// ranges or exclusion predicates, only plain adjacency.
type BaseGraphEdge struct {
	To       mld.NodeId
	Weight   mld.EdgeWeight
	Duration mld.EdgeDuration
}

// BaseGraph is the adjacency view the clique builder needs at preprocessing
// time, independent of the query-time GraphFacade boundary.
type BaseGraph interface {
	Neighbors(node mld.NodeId) []BaseGraphEdge
}

// cellJob is one cell's worth of clique computation: run a bounded Dijkstra
// from every boundary node, restricted to nodes of the same cell, to every
// other boundary node of that cell.
type cellJob struct {
	level    mld.LevelId
	cell     mld.CellID
	boundary []mld.NodeId
}

// cellResult is one completed cellJob's shortcut table, carried back through
// the worker pool's results channel rather than written into the store as a
// job-function side effect -- the store is populated single-threaded after
// Wait(), so it never needs its own locking.
type cellResult struct {
	level mld.LevelId
	cell  mld.CellID
	data  *cellData
}

// Build computes the per-cell shortcut tables for every (level, cell) pair
// named in boundaryByCell, fanning out across numWorkers workers whose job
// queue and results channel are sized to the number of cells -- adapted from
// the teacher's buildLowestLevel/buildLevel,
// which size the pool's job queue to the cell count of the level being
// built so the results channel never blocks a worker.
func Build(graph BaseGraph, partition mld.Partition, level mld.LevelId, boundaryByCell map[mld.CellID][]mld.NodeId, numWorkers int) *CellStorage {
	store := NewCellStorage()

	pool := concurrent.NewWorkerPool[cellJob, cellResult](numWorkers, len(boundaryByCell))

	for cell, boundary := range boundaryByCell {
		pool.AddJob(cellJob{level: level, cell: cell, boundary: boundary})
	}
	pool.Close()

	pool.Start(func(job cellJob) cellResult {
		data := computeClique(graph, partition, job.level, job.cell, job.boundary)
		return cellResult{level: job.level, cell: job.cell, data: data}
	})
	pool.Wait()

	for res := range pool.CollectResults() {
		store.set(res.level, res.cell, res.data)
	}

	return store
}

// computeClique runs one bounded Dijkstra per boundary node, visiting only
// nodes that belong to cell at level, and assembles the full boundary x
// boundary cost matrix: row[from][to] is the in-cell shortest cost from
// from to to. The forward table (out-row for a given node) reads directly
// off that row; the backward table (in-row) reads the corresponding column,
// since an in-cost to node from source is the forward cost source -> node.
func computeClique(graph BaseGraph, partition mld.Partition, level mld.LevelId, cell mld.CellID, boundary []mld.NodeId) *cellData {
	data := newCellData(boundary)

	inCell := func(n mld.NodeId) bool { return partition.GetCell(level, n) == cell }

	matrix := make(map[mld.NodeId]map[mld.NodeId]cellCost, len(boundary))
	for _, from := range boundary {
		matrix[from] = dijkstraWithinCell(graph, inCell, from)
	}

	for _, node := range boundary {
		outW := make([]mld.EdgeWeight, len(boundary))
		outD := make([]mld.EdgeDuration, len(boundary))
		inW := make([]mld.EdgeWeight, len(boundary))
		inD := make([]mld.EdgeDuration, len(boundary))

		for i, to := range boundary {
			if to == node {
				outW[i], inW[i] = mld.InvalidEdgeWeight, mld.InvalidEdgeWeight
				continue
			}
			if c, ok := matrix[node][to]; ok {
				outW[i], outD[i] = c.weight, c.duration
			} else {
				outW[i] = mld.InvalidEdgeWeight
			}
			if c, ok := matrix[to][node]; ok {
				inW[i], inD[i] = c.weight, c.duration
			} else {
				inW[i] = mld.InvalidEdgeWeight
			}
		}

		data.outWeight[node] = outW
		data.outDuration[node] = outD
		data.inWeight[node] = inW
		data.inDuration[node] = inD
	}
	return data
}

type cellCost struct {
	weight   mld.EdgeWeight
	duration mld.EdgeDuration
}

type dijkstraEntry struct {
	node mld.NodeId
	cost cellCost
}

type dijkstraHeap []dijkstraEntry

func (h dijkstraHeap) Len() int { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool {
	if h[i].cost.weight != h[j].cost.weight {
		return h[i].cost.weight < h[j].cost.weight
	}
	return h[i].cost.duration < h[j].cost.duration
}
func (h dijkstraHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *dijkstraHeap) Push(x any)        { *h = append(*h, x.(dijkstraEntry)) }
func (h *dijkstraHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstraWithinCell is the bounded, single-cell Dijkstra the CRP
// customization step runs once per boundary node per cell: it never leaves
// the cell, so its cost is proportional to cell size, not graph size.
func dijkstraWithinCell(graph BaseGraph, inCell func(mld.NodeId) bool, source mld.NodeId) map[mld.NodeId]cellCost {
	best := map[mld.NodeId]cellCost{source: {0, 0}}
	h := &dijkstraHeap{{node: source, cost: cellCost{0, 0}}}

	for h.Len() > 0 {
		cur := heap.Pop(h).(dijkstraEntry)
		known, ok := best[cur.node]
		if ok && (known.weight < cur.cost.weight || (known.weight == cur.cost.weight && known.duration < cur.cost.duration)) {
			continue
		}
		for _, e := range graph.Neighbors(cur.node) {
			if !inCell(e.To) {
				continue
			}
			next := cellCost{cur.cost.weight + e.Weight, cur.cost.duration + e.Duration}
			if prev, ok := best[e.To]; !ok || next.weight < prev.weight || (next.weight == prev.weight && next.duration < prev.duration) {
				best[e.To] = next
				heap.Push(h, dijkstraEntry{node: e.To, cost: next})
			}
		}
	}
	return best
}
