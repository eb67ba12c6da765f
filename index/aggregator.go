package index

import (
	"sync"

	"github.com/salvatore-campagna/lexsearch/hashtable"
)

// Aggregator owns the global term table and the single mutex that
// protects it during parallel indexing. It is the shared merge target
// every worker's per-document table is folded into.
type Aggregator struct {
	mu     sync.Mutex
	global *hashtable.Table[GlobalBucket]
}

// NewAggregator constructs an Aggregator with a global table of the
// given capacity.
func NewAggregator(capacity int) (*Aggregator, error) {
	global, err := NewGlobalTable(capacity)
	if err != nil {
		return nil, err
	}
	return &Aggregator{global: global}, nil
}

// MergeDocument folds one document's per-document table into the global
// table. It acquires the aggregator's mutex once, for the whole merge,
// which is the only point in a worker's task at which it touches shared
// state. tokenCount is the number of retained (post-stopword) tokens in
// the document; it is the denominator of each term's relative frequency.
func (a *Aggregator) MergeDocument(docID uint64, perDoc *hashtable.Table[int], tokenCount int) error {
	if tokenCount == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range perDoc.Buckets() {
		if !entry.Used {
			continue
		}
		rawCount := uint64(entry.Value)
		df := DocFrequency{
			DocID:             docID,
			RawFrequency:      rawCount,
			RelativeFrequency: float64(entry.Value) / float64(tokenCount),
		}
		if err := a.global.InsertCombine(entry.Key, GlobalBucket{df}); err != nil {
			return err
		}
	}
	return nil
}

// Global returns the underlying global table, for the writer to drain
// once indexing is complete.
func (a *Aggregator) Global() *hashtable.Table[GlobalBucket] {
	return a.global
}
