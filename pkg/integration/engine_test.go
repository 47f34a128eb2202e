// Package integration exercises the core many-to-many engine against small,
// hand-built graphs assembled from the domain-stack packages (partition,
// graphfacade, cellstore, unpack) -- the same "build a tiny fixture graph
// and assert on the matrix" style the pack's katalvlaran-lvlath test suite
// uses for its graph algorithms (dfs_test.go, core/adjacency_list_test.go),
// adopted here since the teacher's own tests never build fixtures this way.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartaroute/mldmatrix/pkg/cellstore"
	"github.com/kartaroute/mldmatrix/pkg/graphfacade"
	"github.com/kartaroute/mldmatrix/pkg/mld"
	"github.com/kartaroute/mldmatrix/pkg/partition"
	"github.com/kartaroute/mldmatrix/pkg/unpack"
)

// nodePhantom builds a zero-offset phantom sitting exactly on node.
func nodePhantom(node mld.NodeId) mld.PhantomNode {
	seg := mld.SegmentId{ID: node, Enabled: true}
	return mld.PhantomNode{
		ForwardSegment:     seg,
		ReverseSegment:     seg,
		ValidForwardSource: true,
		ValidForwardTarget: true,
		ValidReverseSource: true,
		ValidReverseTarget: true,
	}
}

func phantoms(nodes ...mld.NodeId) []mld.PhantomNode {
	out := make([]mld.PhantomNode, len(nodes))
	for i, n := range nodes {
		out[i] = nodePhantom(n)
	}
	return out
}

// buildPath builds the 4-node path 0-1-2-3, weight=duration=distance=1 per
// hop, bidirectional, in a single trivial cell so every query resolves via
// plain level-0 relaxation -- the fixture behind Scenarios A-D.
func buildPath(t *testing.T) (*graphfacade.Graph, mld.Unpacker) {
	t.Helper()
	numNodes := 4
	part := partition.NewMultiLevelPartition(numNodes, []uint32{1})
	for n := 0; n < numNodes; n++ {
		part.SetCell(mld.LevelId(1), mld.NodeId(n), 0)
	}
	g := graphfacade.NewGraph(numNodes, part, nil)
	for i := 0; i < numNodes-1; i++ {
		g.AddEdge(mld.NodeId(i), mld.NodeId(i+1), 1, 1, 1, true, true)
		g.AddEdge(mld.NodeId(i+1), mld.NodeId(i), 1, 1, 1, true, true)
	}
	g.BuildBorderEdges(mld.LevelId(0))
	g.BuildBorderEdges(mld.LevelId(1))
	return g, unpack.New(1024)
}

// buildThreeCell builds a 6-node, 3-cell path fixture -- cell0 = {0,1},
// cell1 = {2,3}, cell2 = {4,5} -- where cell1 sits strictly between source
// and target's cells, so a query from 0 to 5 must cross cell1's clique via
// an actual from_clique_arc shortcut rather than a direct edge (Scenario F).
func buildThreeCell(t *testing.T) (*graphfacade.Graph, mld.Unpacker) {
	t.Helper()
	numNodes := 6
	part := partition.NewMultiLevelPartition(numNodes, []uint32{3})
	cellOf := map[mld.NodeId]mld.CellID{0: 0, 1: 0, 2: 1, 3: 1, 4: 2, 5: 2}
	for n, c := range cellOf {
		part.SetCell(mld.LevelId(1), n, c)
	}

	g := graphfacade.NewGraph(numNodes, part, nil)
	type e struct {
		from, to mld.NodeId
		w        mld.EdgeWeight
	}
	edges := []e{
		{0, 1, 2}, {1, 2, 3}, {2, 3, 1}, {3, 4, 4}, {4, 5, 2},
	}
	for _, edge := range edges {
		g.AddEdge(edge.from, edge.to, edge.w, mld.EdgeDuration(edge.w), mld.EdgeDistance(edge.w), true, true)
		g.AddEdge(edge.to, edge.from, edge.w, mld.EdgeDuration(edge.w), mld.EdgeDistance(edge.w), true, true)
	}
	g.BuildBorderEdges(mld.LevelId(0))
	g.BuildBorderEdges(mld.LevelId(1))

	boundaryByCell := map[mld.CellID][]mld.NodeId{
		1: {2, 3},
	}
	cells := cellstore.Build(g, part, mld.LevelId(1), boundaryByCell, 2)
	g.AttachCellStorage(cells)

	return g, unpack.New(1024)
}

func TestScenarioA_OneToMany(t *testing.T) {
	g, u := buildPath(t)
	wd := mld.NewEngineWorkingData(4)
	durations, distances := mld.ManyToManySearch(wd, g, u, phantoms(0), phantoms(1, 2, 3), mld.InvalidLevelID, true, true)

	assert.Equal(t, []mld.EdgeDuration{1, 2, 3}, durations)
	assert.Equal(t, []mld.EdgeDistance{1, 2, 3}, distances)
}

func TestScenarioB_Unreachable(t *testing.T) {
	wd := mld.NewEngineWorkingData(4)
	u := unpack.New(1024)

	// Make every edge one-way forward (0->1->2->3) so 3 cannot reach 0,1,2.
	part := partition.NewMultiLevelPartition(4, []uint32{1})
	oneWay := graphfacade.NewGraph(4, part, nil)
	for i := 0; i < 3; i++ {
		oneWay.AddEdge(mld.NodeId(i), mld.NodeId(i+1), 1, 1, 1, true, false)
	}
	oneWay.BuildBorderEdges(mld.LevelId(0))
	oneWay.BuildBorderEdges(mld.LevelId(1))

	durations, distances := mld.ManyToManySearch(wd, oneWay, u, phantoms(3), phantoms(0, 1, 2), mld.InvalidLevelID, true, true)

	for i := range durations {
		assert.Equal(t, mld.MaximalEdgeDuration, durations[i])
		assert.Equal(t, mld.InvalidEdgeDistance, distances[i])
	}
}

func TestScenarioC_Bidirectional(t *testing.T) {
	g, u := buildPath(t)
	wd := mld.NewEngineWorkingData(4)
	durations, _ := mld.ManyToManySearch(wd, g, u, phantoms(0, 1), phantoms(2, 3), mld.InvalidLevelID, true, false)

	require.Len(t, durations, 4)
	assert.Equal(t, []mld.EdgeDuration{2, 3, 1, 2}, durations)
}

func TestScenarioD_ManyToOne(t *testing.T) {
	g, u := buildPath(t)
	wd := mld.NewEngineWorkingData(4)
	durations, _ := mld.ManyToManySearch(wd, g, u, phantoms(0, 1, 2), phantoms(3), mld.InvalidLevelID, true, false)

	assert.Equal(t, []mld.EdgeDuration{3, 2, 1}, durations)
}

func TestScenarioF_ShortcutRelaxation(t *testing.T) {
	g, u := buildThreeCell(t)
	wd := mld.NewEngineWorkingData(6)
	durations, distances := mld.ManyToManySearch(wd, g, u, phantoms(0), phantoms(5), mld.InvalidLevelID, true, true)

	// 0-1-2-3-4-5 = 2+3+1+4+2 = 12; the 2-3 hop resolves via cell1's clique
	// shortcut, since cell1 sits strictly between source and target's cells.
	assert.Equal(t, mld.EdgeDuration(12), durations[0])
	assert.Equal(t, mld.EdgeDistance(12), distances[0])
}

func TestDiagonalIsZero(t *testing.T) {
	g, u := buildPath(t)
	wd := mld.NewEngineWorkingData(4)
	durations, distances := mld.ManyToManySearch(wd, g, u, phantoms(0, 1, 2), phantoms(0, 1, 2), mld.InvalidLevelID, true, true)

	for i := 0; i < 3; i++ {
		idx := i*3 + i
		assert.Equal(t, mld.EdgeDuration(0), durations[idx])
		assert.Equal(t, mld.EdgeDistance(0), distances[idx])
	}
}

func TestNonNegative(t *testing.T) {
	g, u := buildThreeCell(t)
	wd := mld.NewEngineWorkingData(6)
	all := phantoms(0, 1, 2, 3, 4, 5)
	durations, distances := mld.ManyToManySearch(wd, g, u, all, all, mld.InvalidLevelID, true, true)

	for _, d := range durations {
		assert.GreaterOrEqual(t, d, mld.EdgeDuration(0))
	}
	for _, d := range distances {
		assert.GreaterOrEqual(t, d, mld.EdgeDistance(0))
	}
}

// buildOneWayPath builds the 4-node one-way path 0->1->2->3, weight=1 per
// hop, forward edges only -- unlike buildPath, this has no reverse edges, so
// a search run in the wrong direction finds nothing rather than merely the
// wrong number, making a rows/cols direction mixup in runBidirectional
// immediately visible as MaximalEdgeDuration instead of a wrong finite cost.
func buildOneWayPath(t *testing.T) (*graphfacade.Graph, mld.Unpacker) {
	t.Helper()
	numNodes := 4
	part := partition.NewMultiLevelPartition(numNodes, []uint32{1})
	for n := 0; n < numNodes; n++ {
		part.SetCell(mld.LevelId(1), mld.NodeId(n), 0)
	}
	g := graphfacade.NewGraph(numNodes, part, nil)
	for i := 0; i < numNodes-1; i++ {
		g.AddEdge(mld.NodeId(i), mld.NodeId(i+1), 1, 1, 1, true, false)
	}
	g.BuildBorderEdges(mld.LevelId(0))
	g.BuildBorderEdges(mld.LevelId(1))
	return g, unpack.New(1024)
}

// TestScenarioG_FewerTargetsDirected exercises the len(targets) < len(sources)
// dispatch branch (mld/dispatch.go's `case len(targets) < len(sources)`),
// which runs runBidirectional with rows=targets, cols=sources -- the
// opposite role assignment from the default case. On the one-way path
// 0->1->2->3, a directed shortest path exists only forward, so any mixup
// between "search direction by role" and "search direction by true
// source/target identity" turns every reachable cell into
// MaximalEdgeDuration instead of the correct directed distance.
func TestScenarioG_FewerTargetsDirected(t *testing.T) {
	g, u := buildOneWayPath(t)
	wd := mld.NewEngineWorkingData(4)

	sources := phantoms(0, 1, 2)
	targets := phantoms(2, 3)
	durations, _ := mld.ManyToManySearch(wd, g, u, sources, targets, mld.InvalidLevelID, true, false)

	require.Len(t, durations, len(sources)*len(targets))

	// durations is sources x targets, row-major: row s, col t -> dist(sources[s], targets[t]).
	want := []mld.EdgeDuration{
		2, 3, // from 0: 0->1->2 (2), 0->1->2->3 (3)
		1, 2, // from 1: 1->2 (1), 1->2->3 (2)
		0, 1, // from 2: 2->2 (0, same node), 2->3 (1)
	}
	assert.Equal(t, want, durations)
}

// TestScenarioE_SamePhantomEdge exercises the empty-packed-path branch of
// computeDistanceForPair: a source phantom and a target phantom both snapped
// onto the same directed edge (0->1), with the target further along. Neither
// phantom sits on a node, so nodePhantom can't build this fixture -- both
// phantoms share forward segment 0 but carry distinct weight/duration/
// distance offsets, which is also what phantomsSameLocation must not collapse
// to the diagonal-zero case despite the shared segment id.
func TestScenarioE_SamePhantomEdge(t *testing.T) {
	numNodes := 2
	part := partition.NewMultiLevelPartition(numNodes, []uint32{1})
	part.SetCell(mld.LevelId(1), mld.NodeId(0), 0)
	part.SetCell(mld.LevelId(1), mld.NodeId(1), 0)
	g := graphfacade.NewGraph(numNodes, part, nil)
	g.AddEdge(0, 1, 10, 10, 10, true, true)
	g.AddEdge(1, 0, 10, 10, 10, true, true)
	g.BuildBorderEdges(mld.LevelId(0))
	g.BuildBorderEdges(mld.LevelId(1))
	u := unpack.New(1024)

	source := mld.PhantomNode{
		ForwardSegment:      mld.SegmentId{ID: 0, Enabled: true},
		ForwardWeightOffset: 3, ForwardDurationOffset: 3, ForwardDistanceOffset: 2,
		ValidForwardSource: true, ValidForwardTarget: true,
	}
	target := mld.PhantomNode{
		ForwardSegment:      mld.SegmentId{ID: 0, Enabled: true},
		ForwardWeightOffset: 7, ForwardDurationOffset: 7, ForwardDistanceOffset: 8,
		ValidForwardSource: true, ValidForwardTarget: true,
	}

	wd := mld.NewEngineWorkingData(numNodes)
	durations, distances := mld.ManyToManySearch(wd, g, u, []mld.PhantomNode{source}, []mld.PhantomNode{target}, mld.InvalidLevelID, true, true)

	require.Len(t, durations, 1)
	require.Len(t, distances, 1)
	// Both phantoms meet at the shared segment node without crossing any real
	// edge, so the packed path is empty and the result is the signed offset
	// difference, not a full edge traversal (which would be 10).
	assert.Equal(t, mld.EdgeDuration(4), durations[0])
	assert.Equal(t, mld.EdgeDistance(6), distances[0])
}

func TestTransposition(t *testing.T) {
	g, u := buildPath(t)

	wd1 := mld.NewEngineWorkingData(4)
	forward, _ := mld.ManyToManySearch(wd1, g, u, phantoms(0, 1), phantoms(2, 3), mld.InvalidLevelID, true, false)

	wd2 := mld.NewEngineWorkingData(4)
	backward, _ := mld.ManyToManySearch(wd2, g, u, phantoms(2, 3), phantoms(0, 1), mld.InvalidLevelID, true, false)

	// forward is sources={0,1} x targets={2,3}; backward swaps the roles, so
	// backward[t*2+s] must equal forward[s*2+t] once symmetric weights make
	// the two directions equal-cost.
	for s := 0; s < 2; s++ {
		for tt := 0; tt < 2; tt++ {
			assert.Equal(t, forward[s*2+tt], backward[tt*2+s])
		}
	}
}
