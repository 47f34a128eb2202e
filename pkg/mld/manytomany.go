package mld

// matrixCell is the result of combining a forward leg and a backward leg
// through a common settled node.
type matrixCell struct {
	weight      EdgeWeight
	duration    EdgeDuration
	middleNode  NodeId
}

func newUnresolvedCell() matrixCell {
	return matrixCell{weight: InvalidEdgeWeight, duration: MaximalEdgeDuration, middleNode: SpecialNodeID}
}

// matrixResult is a dense row-major rows x cols grid of matrixCell.
type matrixResult struct {
	rows, cols int
	cells      []matrixCell
}

func newMatrixResult(rows, cols int) matrixResult {
	cells := make([]matrixCell, rows*cols)
	for i := range cells {
		cells[i] = newUnresolvedCell()
	}
	return matrixResult{rows: rows, cols: cols, cells: cells}
}

func (m matrixResult) at(r, c int) matrixCell { return m.cells[r*m.cols+c] }

func (m matrixResult) transpose() matrixResult {
	out := newMatrixResult(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.cells[c*m.rows+r] = m.at(r, c)
		}
	}
	return out
}

// seedPhantomSingle seeds heap for a bidirectional-engine leg, which is
// always evaluated against a single phantom (never a phantom list -- that
// variant is only used by the one-to-many engine, see GetQueryLevelForSet).
func seedPhantomSingle(facade GraphFacade, heap *QueryHeap, dir Direction, p PhantomNode, maximalLevel LevelId) {
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
		level := GetQueryLevel(partition, p, node, maximalLevel)
		RelaxOutgoingEdges(facade, heap, dir, node, weight, duration, data, level)
	}

	if p.ForwardSegment.Enabled {
		insertAndRelax(p.ForwardSegment.ID, sign*p.ForwardWeightOffset, dsign*p.ForwardDurationOffset)
	}
	if p.ReverseSegment.Enabled {
		insertAndRelax(p.ReverseSegment.ID, sign*p.ReverseWeightOffset, dsign*p.ReverseDurationOffset)
	}
}

// runBidirectional runs the many-to-many bucket-based search: a fill seeded
// from each of cols, then a sweep seeded from each of rows, probing buckets
// at every settled node. Sources always search Forward and targets always
// search Backward, independent of which side was assigned to rows/cols for
// the optimization -- reversed tells us which role each side plays here
// (reversed means rows/cols were swapped relative to source/target, i.e.
// rows=targets, cols=sources), so the two directions below are derived from
// it rather than hardcoded to the loop/phase. When calcDistance is set, the
// distance for every (row, col) pair is reconstructed immediately after each
// row's sweep finishes, while the heap still holds that row's
// parent chain -- the next row's heap.Clear() would otherwise erase it.
func runBidirectional(facade GraphFacade, heap *QueryHeap, buckets *BucketList, unpacker Unpacker, rows, cols []PhantomNode, maximalLevel LevelId, calcDistance, reversed bool) (matrixResult, []EdgeDistance) {
	partition := facade.GetMultiLevelPartition()
	result := newMatrixResult(len(rows), len(cols))

	rowDir, colDir := Forward, Backward
	if reversed {
		rowDir, colDir = Backward, Forward
	}

	var distances []EdgeDistance
	if calcDistance {
		distances = make([]EdgeDistance, len(rows)*len(cols))
	}

	buckets.Reset()
	for c, p := range cols {
		heap.Clear()
		seedPhantomSingle(facade, heap, colDir, p, maximalLevel)
		for !heap.Empty() {
			node, weight, data := heap.DeleteMin()
			buckets.Append(NodeBucket{
				Node: node, Parent: data.Parent, FromCliqueArc: data.FromCliqueArc,
				Column: uint32(c), Weight: weight, Duration: data.Duration,
			})
			if facade.ExcludeNode(node) {
				continue
			}
			level := GetQueryLevel(partition, p, node, maximalLevel)
			RelaxOutgoingEdges(facade, heap, colDir, node, weight, data.Duration, data, level)
		}
	}
	buckets.SortForQuery()

	for r, p := range rows {
		heap.Clear()
		seedPhantomSingle(facade, heap, rowDir, p, maximalLevel)
		for !heap.Empty() {
			node, weight, data := heap.DeleteMin()
			for _, bucket := range buckets.EqualRange(node) {
				newWeight := weight + bucket.Weight
				if newWeight < 0 {
					continue
				}
				newDuration := data.Duration + bucket.Duration
				idx := r*result.cols + int(bucket.Column)
				cur := result.cells[idx]
				if lexLess(newWeight, newDuration, cur.weight, cur.duration) {
					result.cells[idx] = matrixCell{weight: newWeight, duration: newDuration, middleNode: node}
				}
			}
			if facade.ExcludeNode(node) {
				continue
			}
			level := GetQueryLevel(partition, p, node, maximalLevel)
			RelaxOutgoingEdges(facade, heap, rowDir, node, weight, data.Duration, data, level)
		}

		if calcDistance {
			for c := range cols {
				idx := r*result.cols + c
				cell := result.cells[idx]
				if cell.middleNode == SpecialNodeID {
					distances[idx] = InvalidEdgeDistance
					continue
				}
				if phantomsSameLocation(p, cols[c]) {
					distances[idx] = 0
					continue
				}
				path := append(packedPathFromHeap(heap, cell.middleNode), packedPathFromBuckets(buckets, cell.middleNode, uint32(c))...)
				distances[idx] = computeDistanceForPair(facade, unpacker, p, cols[c], path, reversed)
			}
		}
	}
	return result, distances
}
