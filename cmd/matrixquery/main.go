// Command matrixquery is a thin wiring example: load the ambient config,
// build a graph facade from a plain edge-list file, run one many-to-many
// query, and print the resulting matrix. It is glue, not part of the core
// engine's contract -- the core never reads a file or a flag itself.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kartaroute/mldmatrix/pkg/batch"
	"github.com/kartaroute/mldmatrix/pkg/cellstore"
	"github.com/kartaroute/mldmatrix/pkg/config"
	"github.com/kartaroute/mldmatrix/pkg/graphfacade"
	"github.com/kartaroute/mldmatrix/pkg/logger"
	"github.com/kartaroute/mldmatrix/pkg/mld"
	"github.com/kartaroute/mldmatrix/pkg/partition"
	"github.com/kartaroute/mldmatrix/pkg/unpack"
)

var (
	configDir = flag.String("config", "./config", "directory containing config.yaml")
	sourceIDs = flag.String("sources", "0", "comma-separated source node ids")
	targetIDs = flag.String("targets", "1", "comma-separated target node ids")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogDebug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	graph, part, err := loadGraph(cfg.GraphPath)
	if err != nil {
		log.Fatal("failed to load graph", zap.Error(err))
	}
	log.Info("graph loaded", zap.Uint32("nodes", graph.GetNumberOfNodes()))

	boundaryByCell := boundaryNodes(graph, part, mld.LevelId(1))
	cells := cellstore.Build(graph, part, mld.LevelId(1), boundaryByCell, cfg.WorkerPoolSize)
	graph.AttachCellStorage(cells)
	log.Info("cell store built", zap.Int("cells", len(boundaryByCell)))

	sources := parsePhantoms(*sourceIDs)
	targets := parsePhantoms(*targetIDs)

	pool := batch.NewPool(int(graph.GetNumberOfNodes()))
	u := unpack.New(1024)

	results, err := batch.Run(context.Background(), pool, graph, u, cfg.WorkerPoolSize, []batch.Request{
		{
			Sources:           sources,
			Targets:           targets,
			MaximalLevel:      mld.LevelId(cfg.MaximalLevel),
			CalculateDuration: true,
			CalculateDistance: true,
		},
	})
	if err != nil {
		log.Fatal("query failed", zap.Error(err))
	}

	printMatrix(len(sources), len(targets), results[0].Durations, results[0].Distances)
}

func parsePhantoms(csv string) []mld.PhantomNode {
	var phantoms []mld.PhantomNode
	for _, tok := range strings.Split(csv, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		phantoms = append(phantoms, nodePhantom(mld.NodeId(id)))
	}
	return phantoms
}

// nodePhantom builds a zero-offset phantom sitting exactly on node: the
// degenerate case of a geocoded point that snapped to a graph vertex rather
// than partway along an edge.
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

func printMatrix(numSources, numTargets int, durations []mld.EdgeDuration, distances []mld.EdgeDistance) {
	for s := 0; s < numSources; s++ {
		for t := 0; t < numTargets; t++ {
			idx := s*numTargets + t
			fmt.Printf("%d\t", durations[idx])
			if distances != nil {
				fmt.Printf("(%fm)\t", distances[idx])
			}
		}
		fmt.Println()
	}
}

// loadGraph reads a minimal plain-text edge list:
//
//	numNodes cellsPerLevel
//	from to weight duration distance forward backward
//	... (one line per edge)
//
// There is no persisted binary wire format in this module beyond the
// ambient YAML config; this loader exists only so the example CLI has
// something to point at.
func loadGraph(path string) (*graphfacade.Graph, mld.Partition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, nil, fmt.Errorf("empty graph file")
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, nil, fmt.Errorf("malformed header")
	}
	numNodes, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, nil, fmt.Errorf("parse numNodes: %w", err)
	}
	cellsPerLevel, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, nil, fmt.Errorf("parse cellsPerLevel: %w", err)
	}

	part := partition.NewMultiLevelPartition(numNodes, []uint32{uint32(cellsPerLevel)})
	for n := 0; n < numNodes; n++ {
		part.SetCell(mld.LevelId(1), mld.NodeId(n), mld.CellID(n%cellsPerLevel))
	}

	g := graphfacade.NewGraph(numNodes, part, nil)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 7 {
			continue
		}
		from, _ := strconv.Atoi(fields[0])
		to, _ := strconv.Atoi(fields[1])
		weight, _ := strconv.Atoi(fields[2])
		duration, _ := strconv.Atoi(fields[3])
		distance, _ := strconv.Atoi(fields[4])
		forward := fields[5] == "1"
		backward := fields[6] == "1"

		g.AddEdge(mld.NodeId(from), mld.NodeId(to), mld.EdgeWeight(weight), mld.EdgeDuration(duration), mld.EdgeDistance(distance), forward, backward)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan graph file: %w", err)
	}

	// Level 0 has no cell table -- every node is its own singleton cell, so
	// every edge counts as a border edge there. Building it lets the shared
	// relaxBorderEdges path serve the very first hop out of a phantom too.
	g.BuildBorderEdges(mld.LevelId(0))
	g.BuildBorderEdges(mld.LevelId(1))
	return g, part, nil
}

func boundaryNodes(graph *graphfacade.Graph, part mld.Partition, level mld.LevelId) map[mld.CellID][]mld.NodeId {
	byCell := make(map[mld.CellID]map[mld.NodeId]bool)
	numNodes := int(graph.GetNumberOfNodes())
	for n := 0; n < numNodes; n++ {
		node := mld.NodeId(n)
		if len(graph.GetBorderEdgeRange(level, node)) == 0 {
			continue
		}
		cell := part.GetCell(level, node)
		if byCell[cell] == nil {
			byCell[cell] = make(map[mld.NodeId]bool)
		}
		byCell[cell][node] = true
	}

	result := make(map[mld.CellID][]mld.NodeId, len(byCell))
	for cell, set := range byCell {
		for node := range set {
			result[cell] = append(result[cell], node)
		}
	}
	return result
}
