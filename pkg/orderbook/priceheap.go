package orderbook

import (
	"container/heap"
	"sort"
)

// orderHeap implements heap.Interface
type orderHeap struct {
	orders []*Order
	less   func(a, b *Order) bool
}

func (h orderHeap) Len() int {
	return len(h.orders)
}

func (h orderHeap) Less(i, j int) bool {
	return h.less(h.orders[i], h.orders[j])
}

func (h orderHeap) Swap(i, j int) {
	h.orders[i], h.orders[j] = h.orders[j], h.orders[i]
}

func (h *orderHeap) Push(x any) {
	h.orders = append(h.orders, x.(*Order))
}

func (h *orderHeap) Pop() any {
	n := len(h.orders)
	o := h.orders[n-1]
	h.orders[n-1] = nil
	h.orders = h.orders[:n-1]
	return o
}

// PriceTimeQueue keeps one side of the book ordered best first. The buy and
// sell sides differ only in the price comparison passed to NewPriceTimeQueue.
type PriceTimeQueue struct {
	h *orderHeap
}

// NewPriceTimeQueue builds a queue from a price comparison: better(a, b) is
// positive when a has the better price. Equal prices fall back to the
// earlier Time, then to admission order.
func NewPriceTimeQueue(better func(a, b *Order) int) *PriceTimeQueue {
	return &PriceTimeQueue{
		h: &orderHeap{
			less: func(a, b *Order) bool {
				if c := better(a, b); c != 0 {
					return c > 0
				}
				if a.Time != b.Time {
					return a.Time < b.Time
				}
				return a.seq < b.seq
			},
		},
	}
}

// NewBuyQueue: highest price first.
func NewBuyQueue() *PriceTimeQueue {
	return NewPriceTimeQueue(func(a, b *Order) int { return a.Price.Cmp(b.Price) })
}

// NewSellQueue: lowest price first.
func NewSellQueue() *PriceTimeQueue {
	return NewPriceTimeQueue(func(a, b *Order) int { return b.Price.Cmp(a.Price) })
}

func (q *PriceTimeQueue) Push(o *Order) {
	heap.Push(q.h, o)
}

func (q *PriceTimeQueue) PeekBest() (*Order, error) {
	if q.h.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	return q.h.orders[0], nil
}

func (q *PriceTimeQueue) PopBest() (*Order, error) {
	if q.h.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(q.h).(*Order), nil
}

func (q *PriceTimeQueue) IsEmpty() bool {
	return q.h.Len() == 0
}

func (q *PriceTimeQueue) Len() int {
	return q.h.Len()
}

// Sorted returns copies of the resident orders, best first. The heap itself
// is left untouched.
func (q *PriceTimeQueue) Sorted() []Order {
	ptrs := make([]*Order, len(q.h.orders))
	copy(ptrs, q.h.orders)
	sort.Slice(ptrs, func(i, j int) bool { return q.h.less(ptrs[i], ptrs[j]) })

	out := make([]Order, len(ptrs))
	for i, o := range ptrs {
		out[i] = *o
	}
	return out
}
