package mld

// oneToManyTarget is one opposite-side phantom's probe entry in the target
// index table: reachable at node with the given signed initial offset.
type oneToManyTarget struct {
	index    int
	weight   EdgeWeight
	duration EdgeDuration
	resolved bool
}

// oneToManyResult is the per-target outcome of a unidirectional search.
type oneToManyResult struct {
	weight      EdgeWeight
	duration    EdgeDuration
	meetingNode NodeId
}

func newUnresolvedResult() oneToManyResult {
	return oneToManyResult{weight: InvalidEdgeWeight, duration: MaximalEdgeDuration, meetingNode: SpecialNodeID}
}

// buildTargetIndexTable seeds one multimap entry per enabled segment of each
// opposite-side phantom. dir is the direction the *search* runs in: Forward
// for a one-to-many search (targets use positive offsets), Backward for a
// many-to-one search (targets use negated offsets, the source side's sign
// flipped).
func buildTargetIndexTable(opposite []PhantomNode, dir Direction) (map[NodeId][]*oneToManyTarget, int) {
	sign := EdgeWeight(1)
	dsign := EdgeDuration(1)
	if dir == Backward {
		sign, dsign = -1, -1
	}

	table := make(map[NodeId][]*oneToManyTarget)
	remaining := 0
	for idx, p := range opposite {
		if p.ForwardSegment.Enabled {
			table[p.ForwardSegment.ID] = append(table[p.ForwardSegment.ID], &oneToManyTarget{
				index: idx, weight: sign * p.ForwardWeightOffset, duration: dsign * p.ForwardDurationOffset,
			})
			remaining++
		}
		if p.ReverseSegment.Enabled {
			table[p.ReverseSegment.ID] = append(table[p.ReverseSegment.ID], &oneToManyTarget{
				index: idx, weight: sign * p.ReverseWeightOffset, duration: dsign * p.ReverseDurationOffset,
			})
			remaining++
		}
	}
	return table, remaining
}

// seedSource inserts source's enabled segments into heap with source-side
// offsets (negated when the search runs Forward, positive when Backward),
// then eagerly relaxes one step out of each, matching the source phantom
// itself never being a real settled node.
func seedSource(facade GraphFacade, heap *QueryHeap, dir Direction, source PhantomNode, opposite []PhantomNode, maximalLevel LevelId) {
	sign := EdgeWeight(-1)
	dsign := EdgeDuration(-1)
	if dir == Backward {
		sign, dsign = 1, 1
	}

	partition := facade.GetMultiLevelPartition()
	insertAndRelax := func(node NodeId, weight EdgeWeight, duration EdgeDuration) {
		data := HeapData{Parent: node, FromCliqueArc: false, Duration: duration}
		if !heap.WasInserted(node) {
			heap.Insert(node, weight, data)
		} else if lexLess(weight, duration, heap.GetKey(node), heap.GetData(node).Duration) {
			heap.DecreaseKey(node, weight, data)
		}
		if facade.ExcludeNode(node) {
			return
		}
		level := GetQueryLevelForSet(partition, source, opposite, node, maximalLevel)
		RelaxOutgoingEdges(facade, heap, dir, node, weight, duration, data, level)
	}

	if source.ForwardSegment.Enabled {
		insertAndRelax(source.ForwardSegment.ID, sign*source.ForwardWeightOffset, dsign*source.ForwardDurationOffset)
	}
	if source.ReverseSegment.Enabled {
		insertAndRelax(source.ReverseSegment.ID, sign*source.ReverseWeightOffset, dsign*source.ReverseDurationOffset)
	}
}

// RunUnidirectional runs the one-to-many (dir == Forward) or many-to-one
// (dir == Backward) MLD search from source against every phantom in
// opposite, returning one result per opposite-side phantom index.
func RunUnidirectional(facade GraphFacade, heap *QueryHeap, dir Direction, source PhantomNode, opposite []PhantomNode, maximalLevel LevelId) []oneToManyResult {
	results := make([]oneToManyResult, len(opposite))
	for i := range results {
		results[i] = newUnresolvedResult()
	}

	targetTable, remaining := buildTargetIndexTable(opposite, dir)
	heap.Clear()
	seedSource(facade, heap, dir, source, opposite, maximalLevel)

	partition := facade.GetMultiLevelPartition()

	for !heap.Empty() && remaining > 0 {
		node, weight, data := heap.DeleteMin()

		if entries, ok := targetTable[node]; ok {
			kept := entries[:0]
			for _, t := range entries {
				if t.resolved {
					continue
				}
				pathWeight := weight + t.weight
				if pathWeight < 0 {
					kept = append(kept, t)
					continue
				}
				pathDuration := data.Duration + t.duration
				if best := results[t.index]; lexLess(pathWeight, pathDuration, best.weight, best.duration) {
					results[t.index] = oneToManyResult{
						weight:      pathWeight,
						duration:    pathDuration,
						meetingNode: node,
					}
				}
				t.resolved = true
				remaining--
			}
			if len(kept) == 0 {
				delete(targetTable, node)
			} else {
				targetTable[node] = kept
			}
		}

		if facade.ExcludeNode(node) {
			continue
		}
		level := GetQueryLevelForSet(partition, source, opposite, node, maximalLevel)
		RelaxOutgoingEdges(facade, heap, dir, node, weight, data.Duration, data, level)
	}

	return results
}
