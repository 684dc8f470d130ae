package orderbook

import "github.com/gammazero/deque"

// FillLedger is the append-only log of fills, read back in the order they
// happened.
type FillLedger struct {
	fills deque.Deque[FillRecord]
}

func (l *FillLedger) Append(f FillRecord) {
	l.fills.PushBack(f)
}

func (l *FillLedger) Len() int {
	return l.fills.Len()
}

// Drain returns every fill recorded so far and empties the ledger.
func (l *FillLedger) Drain() []FillRecord {
	out := make([]FillRecord, 0, l.fills.Len())
	for l.fills.Len() > 0 {
		out = append(out, l.fills.PopFront())
	}
	return out
}
