package index

import (
	"os"
	"path/filepath"
	"testing"
)

// buildSampleIndex reproduces the specification's first worked scenario:
// d1 = "apple apple banana", d2 = "banana cherry", no stopwords.
func buildSampleIndex(t *testing.T) (dir string, sizes FileSizes) {
	t.Helper()

	agg, err := NewAggregator(101)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	d1, _ := NewDocumentTable(11)
	d1.InsertCombine("apple", 2)
	d1.InsertCombine("banana", 1)
	if err := agg.MergeDocument(0, d1, 3); err != nil {
		t.Fatalf("merge d1: %v", err)
	}

	d2, _ := NewDocumentTable(11)
	d2.InsertCombine("banana", 1)
	d2.InsertCombine("cherry", 1)
	if err := agg.MergeDocument(1, d2, 2); err != nil {
		t.Fatalf("merge d2: %v", err)
	}

	dir = t.TempDir()
	docNames := []string{"d1.txt", "d2.txt"}
	if err := WriteIndex(dir, agg.Global(), 2, docNames); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	for _, name := range []string{"dict", "post", "map", "sizes"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	return dir, r.Sizes
}

func TestWriteIndexAndProbeBananaOrdering(t *testing.T) {
	dir, _ := buildSampleIndex(t)
	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}

	rec, err := r.ProbeDictionary("banana")
	if err != nil {
		t.Fatalf("ProbeDictionary(banana): %v", err)
	}
	if rec.NumDocs != 2 {
		t.Fatalf("banana NumDocs = %d, want 2", rec.NumDocs)
	}

	postings, err := r.ReadPostings(rec)
	if err != nil {
		t.Fatalf("ReadPostings: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("len(postings) = %d, want 2", len(postings))
	}

	byDoc := map[int]int{}
	for _, p := range postings {
		byDoc[p.DocID] = p.Weight
	}
	if byDoc[1] <= byDoc[0] {
		t.Errorf("expected d2 (doc 1, rtf 0.5) to outweigh d1 (doc 0, rtf 0.333), got %v", byDoc)
	}
}

func TestWriteIndexAppleOnlyInD1(t *testing.T) {
	dir, _ := buildSampleIndex(t)
	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}

	rec, err := r.ProbeDictionary("apple")
	if err != nil {
		t.Fatalf("ProbeDictionary(apple): %v", err)
	}
	postings, err := r.ReadPostings(rec)
	if err != nil {
		t.Fatalf("ReadPostings: %v", err)
	}
	if len(postings) != 1 || postings[0].DocID != 0 {
		t.Fatalf("apple postings = %+v, want single entry for doc 0", postings)
	}
	if postings[0].Weight <= 0 {
		t.Errorf("expected non-zero weight, got %d", postings[0].Weight)
	}
}

func TestWriteIndexTombstonesRareTerm(t *testing.T) {
	dir, _ := buildSampleIndex(t)
	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}

	if _, err := r.ProbeDictionary("cherry"); err != ErrNotFound {
		t.Fatalf("ProbeDictionary(cherry) = %v, want ErrNotFound (rare term tombstoned)", err)
	}
}

func TestProbeMissingTermReturnsNotFound(t *testing.T) {
	dir, _ := buildSampleIndex(t)
	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if _, err := r.ProbeDictionary("nonexistent"); err != ErrNotFound {
		t.Fatalf("ProbeDictionary(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestDocNameRoundTrip(t *testing.T) {
	dir, _ := buildSampleIndex(t)
	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	name, err := r.DocName(1)
	if err != nil {
		t.Fatalf("DocName: %v", err)
	}
	if name != "d2.txt" {
		t.Errorf("DocName(1) = %q, want d2.txt", name)
	}
}

func TestEmptyCorpusProducesSentinelOnlyDict(t *testing.T) {
	agg, err := NewAggregator(11)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	dir := t.TempDir()
	if err := WriteIndex(dir, agg.Global(), 0, nil); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	post, err := os.ReadFile(filepath.Join(dir, "post"))
	if err != nil {
		t.Fatalf("reading post: %v", err)
	}
	if len(post) != 0 {
		t.Errorf("expected empty post file, got %d bytes", len(post))
	}
	mapFile, err := os.ReadFile(filepath.Join(dir, "map"))
	if err != nil {
		t.Fatalf("reading map: %v", err)
	}
	if len(mapFile) != 0 {
		t.Errorf("expected empty map file, got %d bytes", len(mapFile))
	}

	r, err := OpenReader(dir)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if _, err := r.ProbeDictionary("anything"); err != ErrNotFound {
		t.Errorf("ProbeDictionary on empty index = %v, want ErrNotFound", err)
	}
}

func TestDictRecordsShareFixedByteLength(t *testing.T) {
	dir, sizes := buildSampleIndex(t)
	data, err := os.ReadFile(filepath.Join(dir, "dict"))
	if err != nil {
		t.Fatalf("reading dict: %v", err)
	}
	recordSize := sizes.DictRecordSize()
	if len(data)%recordSize != 0 {
		t.Fatalf("dict file length %d is not a multiple of record size %d", len(data), recordSize)
	}
}
