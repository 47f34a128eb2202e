package mld

// heapUpdate applies the single heap-update rule used by both relaxation
// phases: insert if unseen, decrease-key if strictly lexicographically
// better, otherwise leave the existing entry untouched.
func heapUpdate(heap *QueryHeap, to NodeId, toWeight EdgeWeight, toDuration EdgeDuration, parent NodeId, fromCliqueArc bool) {
	if !heap.WasInserted(to) {
		heap.Insert(to, toWeight, HeapData{Parent: parent, FromCliqueArc: fromCliqueArc, Duration: toDuration})
		return
	}
	if lexLess(toWeight, toDuration, heap.GetKey(to), heap.GetData(to).Duration) {
		heap.DecreaseKey(to, toWeight, HeapData{Parent: parent, FromCliqueArc: fromCliqueArc, Duration: toDuration})
	}
}

// RelaxOutgoingEdges expands node after it was settled with (weight, duration)
// at heap entry heapData, issuing cell shortcuts at level and border edges
// across the level boundary. It is a no-op if level is InvalidLevelID.
//
// Precondition: the caller has already checked !facade.ExcludeNode(node).
func RelaxOutgoingEdges(facade GraphFacade, heap *QueryHeap, dir Direction, node NodeId, weight EdgeWeight, duration EdgeDuration, heapData HeapData, level LevelId) {
	if level == InvalidLevelID {
		return
	}

	if level >= 1 && !heapData.FromCliqueArc {
		relaxShortcuts(facade, heap, dir, node, weight, duration, level)
	}
	relaxBorderEdges(facade, heap, dir, node, weight, duration, level)
}

func relaxShortcuts(facade GraphFacade, heap *QueryHeap, dir Direction, node NodeId, weight EdgeWeight, duration EdgeDuration, level LevelId) {
	partition := facade.GetMultiLevelPartition()
	cellID := partition.GetCell(level, node)
	cell, ok := facade.GetCellStorage().GetCell(level, cellID)
	if !ok {
		return
	}

	if dir == Forward {
		destinations := cell.GetDestinationNodes()
		weights := cell.GetOutWeight(node)
		durations := cell.GetOutDuration(node)
		for i, to := range destinations {
			w := weights[i]
			if w == InvalidEdgeWeight || to == node {
				continue
			}
			heapUpdate(heap, to, weight+w, duration+durations[i], node, true)
		}
		return
	}

	sources := cell.GetSourceNodes()
	weights := cell.GetInWeight(node)
	durations := cell.GetInDuration(node)
	for i, to := range sources {
		w := weights[i]
		if w == InvalidEdgeWeight || to == node {
			continue
		}
		heapUpdate(heap, to, weight+w, duration+durations[i], node, true)
	}
}

func relaxBorderEdges(facade GraphFacade, heap *QueryHeap, dir Direction, node NodeId, weight EdgeWeight, duration EdgeDuration, level LevelId) {
	for _, e := range facade.GetBorderEdgeRange(level, node) {
		data := facade.GetEdgeData(e)
		usable := data.Forward
		if dir == Backward {
			usable = data.Backward
		}
		if !usable {
			continue
		}
		target := facade.GetTarget(e)
		if facade.ExcludeNode(target) {
			continue
		}
		heapUpdate(heap, target, weight+data.Weight, duration+data.Duration, node, false)
	}
}
