package mld

// EngineWorkingData is the per-worker, per-query mutable state: a query heap
// and a bucket list. It is reused across queries (reset, not reallocated)
// and must not be shared between concurrently running queries -- each worker
// owns one, drawn from a pool sized to the graph it serves.
type EngineWorkingData struct {
	Heap    *QueryHeap
	Buckets *BucketList
}

func NewEngineWorkingData(numNodes int) *EngineWorkingData {
	return &EngineWorkingData{
		Heap:    NewQueryHeap(numNodes),
		Buckets: NewBucketList(),
	}
}

// ManyToManySearch is the core's single exposed entry point. It dispatches
// to the one-to-many, many-to-one, or bidirectional engine depending on the
// shape of sources/targets, and always returns a row-major sources x targets
// matrix regardless of which internal orientation it ran in.
func ManyToManySearch(
	wd *EngineWorkingData,
	facade GraphFacade,
	unpacker Unpacker,
	sources, targets []PhantomNode,
	maximalLevel LevelId,
	calculateDuration, calculateDistance bool,
) (durations []EdgeDuration, distances []EdgeDistance) {

	switch {
	case len(sources) == 1:
		results := RunUnidirectional(facade, wd.Heap, Forward, sources[0], targets, maximalLevel)
		return extractUnidirectional(facade, unpacker, wd.Heap, sources[0], targets, results, false, calculateDistance)

	case len(targets) == 1:
		results := RunUnidirectional(facade, wd.Heap, Backward, targets[0], sources, maximalLevel)
		return extractUnidirectional(facade, unpacker, wd.Heap, targets[0], sources, results, true, calculateDistance)

	case len(targets) < len(sources):
		result, dist := runBidirectional(facade, wd.Heap, wd.Buckets, unpacker, targets, sources, maximalLevel, calculateDistance, true)
		return flattenTransposed(result, dist, len(sources), len(targets))

	default:
		result, dist := runBidirectional(facade, wd.Heap, wd.Buckets, unpacker, sources, targets, maximalLevel, calculateDistance, false)
		return flattenDirect(result, dist)
	}
}

// extractUnidirectional turns per-opposite-phantom results into a flat
// duration/distance pair, reconstructing each distance from the still-live
// search heap before the caller's next call clears it. reversedPhysical
// marks a many-to-one dispatch, where the node sequence must be treated as
// reversed for the offset-correction sign flip.
func extractUnidirectional(facade GraphFacade, unpacker Unpacker, heap *QueryHeap, anchor PhantomNode, opposite []PhantomNode, results []oneToManyResult, reversedPhysical, calculateDistance bool) ([]EdgeDuration, []EdgeDistance) {
	durations := make([]EdgeDuration, len(opposite))
	var distances []EdgeDistance
	if calculateDistance {
		distances = make([]EdgeDistance, len(opposite))
	}

	for i, r := range results {
		if r.meetingNode == SpecialNodeID {
			durations[i] = MaximalEdgeDuration
			if calculateDistance {
				distances[i] = InvalidEdgeDistance
			}
			continue
		}
		if phantomsSameLocation(anchor, opposite[i]) {
			durations[i] = 0
			if calculateDistance {
				distances[i] = 0
			}
			continue
		}
		durations[i] = r.duration
		if calculateDistance {
			path := packedPathFromHeap(heap, r.meetingNode)
			if reversedPhysical {
				distances[i] = computeDistanceForPair(facade, unpacker, opposite[i], anchor, path, true)
			} else {
				distances[i] = computeDistanceForPair(facade, unpacker, anchor, opposite[i], path, false)
			}
		}
	}
	return durations, distances
}

func flattenDirect(result matrixResult, dist []EdgeDistance) ([]EdgeDuration, []EdgeDistance) {
	durations := make([]EdgeDuration, len(result.cells))
	for i, c := range result.cells {
		durations[i] = c.duration
	}
	return durations, dist
}

// flattenTransposed undoes the rows/cols swap the reverse-orientation
// dispatch made: result and dist are targets x sources, the public contract
// is always sources x targets.
func flattenTransposed(result matrixResult, dist []EdgeDistance, numSources, numTargets int) ([]EdgeDuration, []EdgeDistance) {
	durations := make([]EdgeDuration, numSources*numTargets)
	var distances []EdgeDistance
	if dist != nil {
		distances = make([]EdgeDistance, numSources*numTargets)
	}
	for t := 0; t < numTargets; t++ {
		for s := 0; s < numSources; s++ {
			src := t*numSources + s
			dst := s*numTargets + t
			durations[dst] = result.cells[src].duration
			if dist != nil {
				distances[dst] = dist[src]
			}
		}
	}
	return durations, distances
}
