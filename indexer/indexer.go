// Package indexer implements the parallel tokenization scheduler: it
// enumerates a document directory, decodes and tokenizes each file, and
// merges per-document results into a single global table before writing
// the four index files.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/salvatore-campagna/lexsearch/index"
	"github.com/salvatore-campagna/lexsearch/metrics"
	"github.com/salvatore-campagna/lexsearch/tokenizer"
)

// Default capacities per spec.md §6.
const (
	DefaultDocumentTableCapacity = 50000
	DefaultGlobalTableCapacity   = 3000017
)

// Stopwords is an immutable, read-only membership set shared by every
// worker. It is built once before a Build run starts and never mutated,
// so lookups require no synchronization.
type Stopwords map[string]struct{}

// NewStopwords builds a Stopwords set from a list of words.
func NewStopwords(words []string) Stopwords {
	sw := make(Stopwords, len(words))
	for _, w := range words {
		sw[w] = struct{}{}
	}
	return sw
}

// Contains reports whether term is a stopword.
func (s Stopwords) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

// Config controls a Build run.
type Config struct {
	InDir                 string
	OutDir                string
	Stopwords             Stopwords
	NumThreads            int
	GlobalTableCapacity   int
	DocumentTableCapacity int
}

func (cfg Config) withDefaults() Config {
	if cfg.NumThreads <= 0 {
		cfg.NumThreads = runtime.NumCPU()
	}
	if cfg.GlobalTableCapacity <= 0 {
		cfg.GlobalTableCapacity = DefaultGlobalTableCapacity
	}
	if cfg.DocumentTableCapacity <= 0 {
		cfg.DocumentTableCapacity = DefaultDocumentTableCapacity
	}
	if cfg.Stopwords == nil {
		cfg.Stopwords = Stopwords{}
	}
	return cfg
}

type document struct {
	name string
	text string
}

// Build runs the full indexing pipeline: a sequential directory listing
// and decode pass, a parallel tokenize-and-merge phase across
// cfg.NumThreads workers, and a final write of the four index files to
// cfg.OutDir. It returns the first error encountered; after a worker
// error, tasks that have not started yet return without tokenizing,
// tasks already running finish, and no index files are written, since a
// partial global table cannot produce a valid index.
func Build(ctx context.Context, cfg Config) error {
	cfg = cfg.withDefaults()
	start := time.Now()

	docs, err := readDocuments(cfg.InDir)
	if err != nil {
		return err
	}

	agg, err := index.NewAggregator(cfg.GlobalTableCapacity)
	if err != nil {
		return fmt.Errorf("indexer: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.NumThreads)

	for docID, doc := range docs {
		docID, doc := docID, doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return tokenizeAndMerge(agg, cfg, uint64(docID), doc)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("indexer: %w", err)
	}

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.name
	}

	if err := index.WriteIndex(cfg.OutDir, agg.Global(), len(docs), names); err != nil {
		return fmt.Errorf("indexer: %w", err)
	}

	metrics.DocumentsIndexed.Add(float64(len(docs)))
	metrics.BuildDuration.Observe(time.Since(start).Seconds())
	klog.Infof("indexed %d documents from %s into %s in %s", len(docs), cfg.InDir, cfg.OutDir, time.Since(start))
	return nil
}

// readDocuments enumerates dir in a fixed, sorted order and sequentially
// reads and decodes each file. A file that cannot be read is logged and
// skipped entirely, so doc_ids below are assigned densely only to
// documents that actually loaded — the preferred resolution of the
// doc_id-assignment open question, not the original source's behavior of
// reserving a doc_id and map entry for every enumerated file up front,
// before its read is attempted. This pass is intentionally sequential:
// decoding is cheap I/O relative to tokenization, and resolving
// success/failure here lets the parallel phase below assign doc_id by
// dense position rather than by unpredictable task completion order.
func readDocuments(dir string) ([]document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("indexer: reading %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]document, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			klog.Warningf("skipping %s: %v", name, err)
			metrics.DocumentsSkipped.Inc()
			continue
		}
		docs = append(docs, document{name: name, text: decodeLatin1(data)})
	}
	return docs, nil
}

// decodeLatin1 maps each input byte directly to the Unicode code point of
// the same numeric value, which is exactly the ISO-8859-1 mapping. Every
// byte value 0-255 is a valid Latin-1 code point, so there is never an
// undecodable byte for the "ignore" fallback to discard; the fallback
// policy is satisfied trivially rather than by a decoding library.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// tokenizeAndMerge tokenizes one document into a fresh per-document
// table, filtering stopwords and counting retained tokens, then merges
// the result into the shared aggregator. The aggregator's own mutex is
// held only for the merge, not for tokenization.
func tokenizeAndMerge(agg *index.Aggregator, cfg Config, docID uint64, doc document) error {
	perDoc, err := index.NewDocumentTable(cfg.DocumentTableCapacity)
	if err != nil {
		return fmt.Errorf("document table for %s: %w", doc.name, err)
	}

	tok := tokenizer.New(doc.text)
	tokenCount := 0
	for {
		term, ok := tok.Next()
		if !ok {
			break
		}
		if cfg.Stopwords.Contains(term) {
			continue
		}
		if err := perDoc.InsertCombine(term, 1); err != nil {
			return fmt.Errorf("tokenizing %s: %w", doc.name, err)
		}
		tokenCount++
	}

	if err := agg.MergeDocument(docID, perDoc, tokenCount); err != nil {
		return fmt.Errorf("merging %s: %w", doc.name, err)
	}
	return nil
}
