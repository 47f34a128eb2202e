package mld

// highestDifferentLevel applies GetHighestDifferentLevel through a segment's
// enabled flag: a disabled segment never constrains the query level.
func highestDifferentLevel(partition Partition, segment SegmentId, node NodeId) LevelId {
	if !segment.Enabled {
		return InvalidLevelID
	}
	return partition.GetHighestDifferentLevel(segment.ID, node)
}

// GetQueryLevel is the level above which the partition is too coarse to
// affect the answer for a single phantom p relaxing into node. A
// maximalLevel of 0 or InvalidLevelID disables the cap.
func GetQueryLevel(partition Partition, p PhantomNode, node NodeId, maximalLevel LevelId) LevelId {
	level := minLevel(
		highestDifferentLevel(partition, p.ForwardSegment, node),
		highestDifferentLevel(partition, p.ReverseSegment, node),
	)
	if maximalLevel != 0 && maximalLevel != InvalidLevelID && level >= maximalLevel {
		return InvalidLevelID
	}
	return level
}

// GetQueryLevelForSet is the elementwise min of GetQueryLevel over source and
// every opposite-side phantom, used while seeding a one-to-many search: it
// equals min_{s,t} GetQueryLevel(s, node, t) and prunes expansions that no
// source/target pair in this query could ever traverse.
func GetQueryLevelForSet(partition Partition, source PhantomNode, opposite []PhantomNode, node NodeId, maximalLevel LevelId) LevelId {
	level := GetQueryLevel(partition, source, node, maximalLevel)
	for _, p := range opposite {
		level = minLevel(level, GetQueryLevel(partition, p, node, maximalLevel))
	}
	return level
}
