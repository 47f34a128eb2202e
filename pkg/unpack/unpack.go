// Package unpack resolves a PackedPath into its real node and edge sequence,
// adapted from the teacher's shortcut path-unpacking idiom: a cell shortcut
// never carries its own predecessor chain, so unpacking it means re-running
// a bounded search inside the cell it summarises (customizable route
// planning in road networks, Delling et al., §7.2, "path retrieval").
package unpack

import (
	"container/heap"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kartaroute/mldmatrix/pkg/mld"
)

// shortcutKey identifies one cell-shortcut hop whose resolved node/edge
// sequence is cacheable across queries against the same cell store: the
// store is immutable once built (see DESIGN.md), so the resolution of a
// given (from, to) shortcut never changes.
type shortcutKey struct {
	from, to mld.NodeId
}

type shortcutResolution struct {
	nodes []mld.NodeId
	edges []mld.EdgeID
}

// Unpacker is the default, recomputing implementation of mld.Unpacker. Each
// cell-shortcut resolution is cached, adapted from the teacher's puCache
// (pkg/engine/routing/engine.go) keyed by PUCacheKey across repeated queries
// against the same cell store; direct edges are never cached since finding
// them is already an O(degree) scan with nothing to memoize.
type Unpacker struct {
	cache *lru.Cache[shortcutKey, shortcutResolution]
}

// New builds an Unpacker with a shortcut-resolution cache sized to cacheSize
// entries. A cacheSize of 0 disables caching.
func New(cacheSize int) *Unpacker {
	u := &Unpacker{}
	if cacheSize > 0 {
		u.cache, _ = lru.New[shortcutKey, shortcutResolution](cacheSize)
	}
	return u
}

var _ mld.Unpacker = (*Unpacker)(nil)

func (u *Unpacker) UnpackPath(facade mld.GraphFacade, path mld.PackedPath) ([]mld.NodeId, []mld.EdgeID, error) {
	if len(path) == 0 {
		return nil, nil, nil
	}

	nodes := []mld.NodeId{path[0].From}
	var edges []mld.EdgeID

	for _, pe := range path {
		if !pe.FromCliqueArc {
			e, ok := findDirectEdge(facade, pe.From, pe.To)
			if !ok {
				return nil, nil, fmt.Errorf("unpack: no direct edge %d -> %d", pe.From, pe.To)
			}
			edges = append(edges, e)
			nodes = append(nodes, pe.To)
			continue
		}

		subNodes, subEdges, err := u.resolveShortcut(facade, pe.From, pe.To)
		if err != nil {
			return nil, nil, err
		}
		edges = append(edges, subEdges...)
		nodes = append(nodes, subNodes[1:]...)
	}

	return nodes, edges, nil
}

func (u *Unpacker) resolveShortcut(facade mld.GraphFacade, from, to mld.NodeId) ([]mld.NodeId, []mld.EdgeID, error) {
	key := shortcutKey{from, to}
	if u.cache != nil {
		if r, ok := u.cache.Get(key); ok {
			return r.nodes, r.edges, nil
		}
	}

	nodes, edges, err := unpackShortcut(facade, from, to)
	if err != nil {
		return nil, nil, err
	}
	if u.cache != nil {
		u.cache.Add(key, shortcutResolution{nodes: nodes, edges: edges})
	}
	return nodes, edges, nil
}

func findDirectEdge(facade mld.GraphFacade, from, to mld.NodeId) (mld.EdgeID, bool) {
	for _, e := range facade.GetAdjacentEdgeRange(from) {
		data := facade.GetEdgeData(e)
		if data.Forward && facade.GetTarget(e) == to {
			return e, true
		}
	}
	return 0, false
}

// shortcutCellLevel finds the finest level at which from and to already
// share a cell -- the level the shortcut relaxation phase must have taken
// the clique arc at, since a cell's shortcut table only connects nodes of
// that same cell.
func shortcutCellLevel(partition mld.Partition, from, to mld.NodeId) mld.LevelId {
	for level := mld.LevelId(1); int(level) < partition.GetNumberOfLevels(); level++ {
		if partition.GetCell(level, from) == partition.GetCell(level, to) {
			return level
		}
	}
	return mld.InvalidLevelID
}

type unpackEntry struct {
	node mld.NodeId
	cost mld.EdgeWeight
}
type unpackHeap []unpackEntry

func (h unpackHeap) Len() int            { return len(h) }
func (h unpackHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h unpackHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *unpackHeap) Push(x any)         { *h = append(*h, x.(unpackEntry)) }
func (h *unpackHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// unpackShortcut re-derives the real node/edge sequence a clique arc
// summarises by running a bounded Dijkstra restricted to the shortcut's
// cell and walking predecessors back from `to`.
func unpackShortcut(facade mld.GraphFacade, from, to mld.NodeId) ([]mld.NodeId, []mld.EdgeID, error) {
	partition := facade.GetMultiLevelPartition()
	level := shortcutCellLevel(partition, from, to)
	if level == mld.InvalidLevelID {
		return nil, nil, fmt.Errorf("unpack: no common cell for shortcut %d -> %d", from, to)
	}
	cell := partition.GetCell(level, from)
	inCell := func(n mld.NodeId) bool { return partition.GetCell(level, n) == cell }

	dist := map[mld.NodeId]mld.EdgeWeight{from: 0}
	predEdge := map[mld.NodeId]mld.EdgeID{}
	pred := map[mld.NodeId]mld.NodeId{}

	h := &unpackHeap{{node: from, cost: 0}}
	for h.Len() > 0 {
		cur := heap.Pop(h).(unpackEntry)
		if cur.node == to {
			break
		}
		if known, ok := dist[cur.node]; ok && known < cur.cost {
			continue
		}
		for _, e := range facade.GetAdjacentEdgeRange(cur.node) {
			data := facade.GetEdgeData(e)
			target := facade.GetTarget(e)
			if !data.Forward || !inCell(target) {
				continue
			}
			next := cur.cost + data.Weight
			if prev, ok := dist[target]; !ok || next < prev {
				dist[target] = next
				pred[target] = cur.node
				predEdge[target] = e
				heap.Push(h, unpackEntry{node: target, cost: next})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, nil, fmt.Errorf("unpack: shortcut %d -> %d not reachable within cell", from, to)
	}

	var nodes []mld.NodeId
	var edges []mld.EdgeID
	cur := to
	for cur != from {
		nodes = append(nodes, cur)
		edges = append(edges, predEdge[cur])
		cur = pred[cur]
	}
	nodes = append(nodes, from)

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return nodes, edges, nil
}
