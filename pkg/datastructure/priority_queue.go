package datastructure

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T
	seq  uint64
}

func NewPriorityQueueNode[T any](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap binary heap priority queue. equal ranks leave the heap in insertion order.
// there is no decrease-key, callers push a new node and skip stale ones on extraction.
type MinHeap[T any] struct {
	heap    []PriorityQueueNode[T]
	nextSeq uint64
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

// less compare by rank, then by insertion sequence.
func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

// heapifyUp swap with parent while smaller than parent. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]
		index = h.parent(index)
	}
}

// heapifyDown swap with the smaller child while a child is smaller. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], bool) {
	if h.IsEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	return h.heap[0], true
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	node.seq = h.nextSeq
	h.nextSeq++
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

// ExtractMin pop the minimum node. O(logN).
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], bool) {
	if h.IsEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root, true
}

func (h *MinHeap[T]) Clear() {
	h.heap = h.heap[:0]
	h.nextSeq = 0
}
