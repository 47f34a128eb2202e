package mld

// packedPathFromHeap walks the source-to-middle half of a path from the
// heap's parent chain, starting at middle and walking back to the phantom
// root (the node whose own data.Parent equals itself), then reverses the
// result into source-to-middle traversal order.
func packedPathFromHeap(heap *QueryHeap, middle NodeId) PackedPath {
	var path PackedPath
	cur := middle
	for {
		data := heap.GetData(cur)
		if data.Parent == cur {
			break
		}
		path = append(path, PackedEdge{From: data.Parent, To: cur, FromCliqueArc: data.FromCliqueArc})
		cur = data.Parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// packedPathFromBuckets walks the middle-to-target half of a path from the
// bucket list, starting at middle within a fixed column and walking forward
// toward the target root until a self-loop (root) or a missing bucket.
func packedPathFromBuckets(buckets *BucketList, middle NodeId, column uint32) PackedPath {
	var path PackedPath
	cur := middle
	for {
		b, ok := buckets.EqualRangeColumn(cur, column)
		if !ok || b.Parent == cur {
			break
		}
		path = append(path, PackedEdge{From: cur, To: b.Parent, FromCliqueArc: b.FromCliqueArc})
		cur = b.Parent
	}
	return path
}

// applyOffsetCorrections implements the four-boundary-case offset table of
// the distance reconstruction step. reversed selects the sign flip that
// applies when the matrix dispatcher ran the search in the opposite
// orientation (REVERSE_DIRECTION transposition, or a many-to-one dispatch).
func applyOffsetCorrections(dist EdgeDistance, source, target PhantomNode, firstNode, lastNode NodeId, reversed bool) EdgeDistance {
	sign := EdgeDistance(1)
	if reversed {
		sign = -1
	}
	if firstNode == source.ForwardSegment.ID {
		dist -= sign * source.ForwardDistanceOffset
	}
	if firstNode == source.ReverseSegment.ID {
		dist -= sign * source.ReverseDistanceOffset
	}
	if lastNode == target.ForwardSegment.ID {
		dist += sign * target.ForwardDistanceOffset
	}
	if lastNode == target.ReverseSegment.ID {
		dist += sign * target.ReverseDistanceOffset
	}
	return dist
}

// computeDistanceForPair implements §4.4 in full: the empty-path same-edge
// branch, and the unpack-then-correct branch.
func computeDistanceForPair(facade GraphFacade, unpacker Unpacker, source, target PhantomNode, path PackedPath, reversed bool) EdgeDistance {
	if len(path) == 0 {
		if target.ForwardDistanceOffset > source.ForwardDistanceOffset {
			return target.ForwardDistanceOffset - source.ForwardDistanceOffset
		}
		return target.ReverseDistanceOffset - source.ReverseDistanceOffset
	}

	nodes, edges, err := unpacker.UnpackPath(facade, path)
	if err != nil || len(nodes) == 0 {
		return InvalidEdgeDistance
	}

	var dist EdgeDistance
	for _, e := range edges {
		dist += facade.ComputeEdgeDistance(e)
	}
	return applyOffsetCorrections(dist, source, target, nodes[0], nodes[len(nodes)-1], reversed)
}

// phantomsSameLocation reports whether two phantoms denote the same snapped
// location, the condition under which durations[i,i] = 0 / distances[i,i] = 0
// must hold (§8 property 2). The literal source carried a dead-looking
// `% len(phantoms)` guard alongside a direct equality check; this is the
// clean rule the source's intent reduces to.
//
// Segment equality alone is not enough: two distinct phantoms snapped to
// different points on the same edge share the same forward/reverse segment
// ids (those are just the edge's endpoint nodes) but have different
// residual offsets, and are not the same location -- that is Scenario E's
// empty-packed-path case, not the diagonal case, and must go through
// computeDistanceForPair's offset-difference branch rather than being
// short-circuited here.
func phantomsSameLocation(a, b PhantomNode) bool {
	return a.ForwardSegment == b.ForwardSegment && a.ReverseSegment == b.ReverseSegment &&
		a.ForwardWeightOffset == b.ForwardWeightOffset && a.ReverseWeightOffset == b.ReverseWeightOffset
}
