// Package queryengine implements the query evaluator: it tokenizes a
// query string, probes the on-disk dictionary for each unique token,
// accumulates per-document weights across all matching terms, and
// selects the top-k documents with a bounded min-heap, the same
// block-processing shape as the teacher's MultiTermQuery but over the
// fixed-width on-disk files instead of in-memory roaring-bitmap segments.
package queryengine

import (
	"container/heap"
	"fmt"
	"sort"
	"strconv"

	"k8s.io/klog/v2"

	"github.com/salvatore-campagna/lexsearch/hashtable"
	"github.com/salvatore-campagna/lexsearch/index"
	"github.com/salvatore-campagna/lexsearch/tokenizer"
)

// Result is one ranked query hit.
type Result struct {
	Name   string
	Weight int
}

// DefaultNumResults is the default top-k cutoff (the -n/--num-results
// CLI flag's default).
const DefaultNumResults = 10

// Evaluate answers query against the index directory dir and returns up
// to k results ordered by accumulated weight descending. An empty query,
// or a query whose tokens are all missing from the dictionary, returns a
// nil result and no error.
func Evaluate(dir, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = DefaultNumResults
	}

	r, err := index.OpenReader(dir)
	if err != nil {
		return nil, err
	}

	terms := uniqueTerms(tokenizer.Tokenize(query))
	if len(terms) == 0 {
		return nil, nil
	}

	records, totalPostings, err := probeTerms(r, terms)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		klog.Infof("query %q: no terms found in %s", query, dir)
		return nil, nil
	}

	scores, err := accumulateScores(r, records, totalPostings)
	if err != nil {
		return nil, err
	}

	top := selectTopK(scores, k)
	return resolveNames(r, top)
}

// uniqueTerms deduplicates a token list while preserving first-seen order.
func uniqueTerms(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// probeTerms probes the dictionary for each term, silently dropping
// tokens that are not found, and returns the found records along with
// the total number of postings across them.
func probeTerms(r *index.Reader, terms []string) ([]index.DictRecord, int, error) {
	var records []index.DictRecord
	total := 0
	for _, term := range terms {
		rec, err := r.ProbeDictionary(term)
		if err == index.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("queryengine: probing %q: %w", term, err)
		}
		records = append(records, rec)
		total += rec.NumDocs
	}
	return records, total, nil
}

// accumulateScores reads every found term's postings into a fresh hash
// table sized to 3x the total posting count (rounded up to the nearest
// capacity coprime with the probe stride), keyed by the decimal doc_id,
// summing weights across terms that share a document.
func accumulateScores(r *index.Reader, records []index.DictRecord, totalPostings int) (*hashtable.Table[int], error) {
	capacity := hashtable.NextCoprimeCapacity(3 * totalPostings)
	scores, err := hashtable.New[int](capacity, hashtable.CombineCounts)
	if err != nil {
		return nil, fmt.Errorf("queryengine: %w", err)
	}

	for _, rec := range records {
		postings, err := r.ReadPostings(rec)
		if err != nil {
			return nil, fmt.Errorf("queryengine: reading postings for %q: %w", rec.Term, err)
		}
		for _, p := range postings {
			key := strconv.Itoa(p.DocID)
			if err := scores.InsertCombine(key, p.Weight); err != nil {
				return nil, fmt.Errorf("queryengine: accumulating doc %d: %w", p.DocID, err)
			}
		}
	}
	return scores, nil
}

// candidate is one entry considered for the top-k heap. seq records
// insertion order (bucket iteration order) so ties can be broken
// deterministically.
type candidate struct {
	docID  int
	weight int
	seq    int
}

// minHeap is a container/heap.Interface ordering candidates by ascending
// weight, so its root is always the current lowest-weight member of the
// bounded top-k set.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// selectTopK iterates the accumulated score table's buckets and keeps
// the k highest-weight candidates via a bounded min-heap, then drains it
// into weight-descending order with ties broken by bucket iteration
// order.
func selectTopK(scores *hashtable.Table[int], k int) []candidate {
	h := &minHeap{}
	heap.Init(h)

	seq := 0
	for _, slot := range scores.Buckets() {
		if !slot.Used {
			continue
		}
		docID, err := strconv.Atoi(slot.Key)
		if err != nil {
			continue
		}
		c := candidate{docID: docID, weight: slot.Value, seq: seq}
		seq++

		if h.Len() < k {
			heap.Push(h, c)
		} else if len(*h) > 0 && c.weight > (*h)[0].weight {
			heap.Pop(h)
			heap.Push(h, c)
		}
	}

	items := make([]candidate, h.Len())
	copy(items, *h)
	sort.Slice(items, func(i, j int) bool {
		if items[i].weight != items[j].weight {
			return items[i].weight > items[j].weight
		}
		return items[i].seq < items[j].seq
	})
	return items
}

// resolveNames maps each candidate's doc_id to its file name via the map
// file.
func resolveNames(r *index.Reader, candidates []candidate) ([]Result, error) {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		name, err := r.DocName(c.docID)
		if err != nil {
			return nil, fmt.Errorf("queryengine: resolving doc %d: %w", c.docID, err)
		}
		results = append(results, Result{Name: name, Weight: c.weight})
	}
	return results, nil
}
