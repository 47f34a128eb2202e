package mld

const (
	stateUnseen uint8 = iota
	stateQueued
	stateSettled
)

// QueryHeap is an addressable 4-ary min-heap keyed by NodeId, modeled on the
// d-ary heap with an external position array: a dense array indexed directly
// by node id plays the role of CRPQueryKey's itemPos, sized once to the graph
// and reused across queries rather than rebuilt per query.
//
// Reset only touches nodes visited during the last query (the touched list),
// not the whole array -- the same memory-consciousness that drove the
// base-slice-plus-overlay split in a two-level query storage: full per-query
// O(numNodes) resets dominate wall time once concurrent queries are common.
type QueryHeap struct {
	order   []NodeId
	pos     []int32
	state   []uint8
	key     []EdgeWeight
	data    []HeapData
	touched []NodeId
	d       int
}

func NewQueryHeap(numNodes int) *QueryHeap {
	return &QueryHeap{
		order: make([]NodeId, 0, 64),
		pos:   make([]int32, numNodes),
		state: make([]uint8, numNodes),
		key:   make([]EdgeWeight, numNodes),
		data:  make([]HeapData, numNodes),
		d:     4,
	}
}

func (h *QueryHeap) Empty() bool { return len(h.order) == 0 }

func (h *QueryHeap) Size() int { return len(h.order) }

func (h *QueryHeap) WasInserted(n NodeId) bool { return h.state[n] != stateUnseen }

func (h *QueryHeap) GetKey(n NodeId) EdgeWeight { return h.key[n] }

func (h *QueryHeap) GetData(n NodeId) HeapData { return h.data[n] }

func (h *QueryHeap) touch(n NodeId) {
	if h.state[n] == stateUnseen {
		h.touched = append(h.touched, n)
	}
}

// Insert adds a previously-unseen node to the heap.
func (h *QueryHeap) Insert(n NodeId, key EdgeWeight, data HeapData) {
	h.touch(n)
	h.key[n] = key
	h.data[n] = data
	h.state[n] = stateQueued
	h.order = append(h.order, n)
	idx := len(h.order) - 1
	h.pos[n] = int32(idx)
	h.heapifyUp(idx)
}

// DecreaseKey lowers the key of a node already in the heap and replaces its data.
func (h *QueryHeap) DecreaseKey(n NodeId, key EdgeWeight, data HeapData) {
	h.key[n] = key
	h.data[n] = data
	h.heapifyUp(int(h.pos[n]))
}

// DeleteMin pops and returns the minimum-key node, marking it settled.
func (h *QueryHeap) DeleteMin() (NodeId, EdgeWeight, HeapData) {
	root := h.order[0]
	key, data := h.key[root], h.data[root]

	last := len(h.order) - 1
	h.swap(0, last)
	h.order = h.order[:last]
	h.state[root] = stateSettled
	h.pos[root] = -1

	if len(h.order) > 0 {
		h.heapifyDown(0)
	}
	return root, key, data
}

// Clear resets the heap for the next query in O(touched), not O(numNodes).
func (h *QueryHeap) Clear() {
	for _, n := range h.touched {
		h.state[n] = stateUnseen
		h.pos[n] = -1
	}
	h.touched = h.touched[:0]
	h.order = h.order[:0]
}

func (h *QueryHeap) parent(i int) int { return (i - 1) / h.d }

func (h *QueryHeap) swap(i, j int) {
	h.order[i], h.order[j] = h.order[j], h.order[i]
	h.pos[h.order[i]] = int32(i)
	h.pos[h.order[j]] = int32(j)
}

func (h *QueryHeap) heapifyUp(i int) {
	for i != 0 {
		p := h.parent(i)
		if !lexLess(h.key[h.order[i]], h.data[h.order[i]].Duration, h.key[h.order[p]], h.data[h.order[p]].Duration) {
			break
		}
		h.swap(i, p)
		i = p
	}
}

func (h *QueryHeap) heapifyDown(i int) {
	n := len(h.order)
	for {
		firstChild := i*h.d + 1
		if firstChild >= n {
			return
		}
		limit := firstChild + h.d
		if limit > n {
			limit = n
		}
		smallest := firstChild
		for c := firstChild + 1; c < limit; c++ {
			if lexLess(h.key[h.order[c]], h.data[h.order[c]].Duration, h.key[h.order[smallest]], h.data[h.order[smallest]].Duration) {
				smallest = c
			}
		}
		if !lexLess(h.key[h.order[smallest]], h.data[h.order[smallest]].Duration, h.key[h.order[i]], h.data[h.order[i]].Duration) {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
