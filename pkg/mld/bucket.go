package mld

import "sort"

// BucketList is the flat, sort-then-equal-range store for backward search
// results, deliberately not a hash multimap: the linear scan after a single
// sort is cache-friendly and gives deterministic iteration order, which a
// hash map's bucket order does not.
type BucketList struct {
	buckets []NodeBucket
	sorted  bool
}

func NewBucketList() *BucketList {
	return &BucketList{buckets: make([]NodeBucket, 0, 256)}
}

func (b *BucketList) Reset() {
	b.buckets = b.buckets[:0]
	b.sorted = false
}

func (b *BucketList) Append(bucket NodeBucket) {
	b.buckets = append(b.buckets, bucket)
	b.sorted = false
}

// SortForQuery sorts the bucket list by Node, secondary by Column, once per
// backward fill; EqualRange is only valid after this has run.
func (b *BucketList) SortForQuery() {
	sort.Slice(b.buckets, func(i, j int) bool {
		if b.buckets[i].Node != b.buckets[j].Node {
			return b.buckets[i].Node < b.buckets[j].Node
		}
		return b.buckets[i].Column < b.buckets[j].Column
	})
	b.sorted = true
}

// EqualRange returns the (possibly empty) contiguous slice of buckets for node.
func (b *BucketList) EqualRange(node NodeId) []NodeBucket {
	lo := sort.Search(len(b.buckets), func(i int) bool { return b.buckets[i].Node >= node })
	hi := lo
	for hi < len(b.buckets) && b.buckets[hi].Node == node {
		hi++
	}
	return b.buckets[lo:hi]
}

// EqualRangeColumn narrows EqualRange(node) to a single column, used while
// walking the middle-to-target half of a packed path.
func (b *BucketList) EqualRangeColumn(node NodeId, column uint32) (NodeBucket, bool) {
	for _, bucket := range b.EqualRange(node) {
		if bucket.Column == column {
			return bucket, true
		}
	}
	return NodeBucket{}, false
}

func (b *BucketList) Len() int { return len(b.buckets) }
