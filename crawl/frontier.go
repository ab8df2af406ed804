package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/bloom"
)

// Item is a queued document and the number of reference hops from a seed.
type Item struct {
	ID    prettyrfc.DocumentID
	Depth int

	seq int
}

// Frontier is an in-memory document frontier with a depth-ordered queue and
// Bloom filter deduplication. Shallower documents are popped first; equal
// depths pop in push order. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *itemHeap
	seq   int
}

// NewFrontier creates a new Frontier sized for n expected documents
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &itemHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds id at depth to the frontier.
// Returns false if the document has already been seen.
func (f *Frontier) Push(id prettyrfc.DocumentID, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(id) {
		return false
	}

	heap.Push(f.queue, Item{ID: id, Depth: depth, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next item. The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return Item{}, false
	}
	item, _ := heap.Pop(f.queue).(Item)
	return item, true
}

// Len returns the number of documents in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the document has been processed or queued.
func (f *Frontier) Seen(id prettyrfc.DocumentID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(id)
}

// itemHeap implements heap.Interface ordered by depth, then push order.
type itemHeap []Item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	item, _ := x.(Item)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
