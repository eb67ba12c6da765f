package index

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/salvatore-campagna/lexsearch/hashtable"
)

// ErrNotFound is returned when a dictionary probe does not locate the
// requested term. It is not a failure of the read path; callers treat it
// as "this token contributes nothing".
var ErrNotFound = errors.New("index: term not found")

// Reader provides offset-arithmetic random access to a built index
// directory. It holds no open file handles between calls: every method
// opens, reads, and closes its own handle, so concurrent queries share
// nothing but the read-only files on disk.
type Reader struct {
	dir   string
	Sizes FileSizes
}

// OpenReader reads and parses the `sizes` metadata sidecar and returns a
// Reader ready to serve dictionary probes, posting reads, and document
// name lookups against dir.
func OpenReader(dir string) (*Reader, error) {
	data, err := os.ReadFile(filepath.Join(dir, "sizes"))
	if err != nil {
		return nil, fmt.Errorf("index: reading sizes: %w", err)
	}
	var sizes FileSizes
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &sizes); err != nil {
		return nil, fmt.Errorf("index: parsing sizes: %w", err)
	}
	return &Reader{dir: dir, Sizes: sizes}, nil
}

// ProbeDictionary computes the initial probe slot for term and follows
// the stride-3 probe sequence until it finds term, finds the `!NULL`
// empty-slot sentinel (not found), or exhausts the table. A `!DELETED`
// tombstone, or any other mismatched term, does not terminate the probe:
// only `!NULL` does. This resolves the open question in the design notes
// in favor of continuing past every kind of mismatch rather than only
// past a literal `!DELETED` hit.
func (r *Reader) ProbeDictionary(term string) (DictRecord, error) {
	if r.Sizes.NumDictLines == 0 {
		return DictRecord{}, ErrNotFound
	}

	f, err := os.Open(filepath.Join(r.dir, "dict"))
	if err != nil {
		return DictRecord{}, fmt.Errorf("index: opening dict: %w", err)
	}
	defer f.Close()

	recordSize := r.Sizes.DictRecordSize()
	idx := hashtable.HashIndex(term, r.Sizes.NumDictLines)

	for tries := 0; tries < r.Sizes.NumDictLines; tries++ {
		rec, err := readDictRecordAt(f, idx, recordSize)
		if err != nil {
			return DictRecord{}, err
		}
		switch {
		case rec.Term == NullSentinel:
			return DictRecord{}, ErrNotFound
		case rec.Term == term:
			return rec, nil
		}
		idx = (idx + 3) % r.Sizes.NumDictLines
	}
	return DictRecord{}, ErrNotFound
}

func readDictRecordAt(f *os.File, slot, recordSize int) (DictRecord, error) {
	buf := make([]byte, recordSize)
	if _, err := f.ReadAt(buf, int64(slot)*int64(recordSize)); err != nil && err != io.EOF {
		return DictRecord{}, fmt.Errorf("index: reading dict record %d: %w", slot, err)
	}
	fields := strings.Fields(string(buf))
	if len(fields) != 3 {
		return DictRecord{}, fmt.Errorf("index: malformed dict record %d: %q", slot, buf)
	}
	numDocs, err := strconv.Atoi(fields[1])
	if err != nil {
		return DictRecord{}, fmt.Errorf("index: malformed num_docs in dict record %d: %w", slot, err)
	}
	postStart, err := strconv.Atoi(fields[2])
	if err != nil {
		return DictRecord{}, fmt.Errorf("index: malformed post_line_start in dict record %d: %w", slot, err)
	}
	return DictRecord{Term: fields[0], NumDocs: numDocs, PostLineStart: postStart}, nil
}

// ReadPostings reads all NumDocs posting records for rec, starting at
// rec.PostLineStart.
func (r *Reader) ReadPostings(rec DictRecord) ([]PostRecord, error) {
	if rec.NumDocs == 0 {
		return nil, nil
	}

	f, err := os.Open(filepath.Join(r.dir, "post"))
	if err != nil {
		return nil, fmt.Errorf("index: opening post: %w", err)
	}
	defer f.Close()

	recordSize := r.Sizes.PostRecordSize()
	buf := make([]byte, recordSize*rec.NumDocs)
	if _, err := f.ReadAt(buf, int64(rec.PostLineStart)*int64(recordSize)); err != nil && err != io.EOF {
		return nil, fmt.Errorf("index: reading postings at %d: %w", rec.PostLineStart, err)
	}

	postings := make([]PostRecord, rec.NumDocs)
	for i := 0; i < rec.NumDocs; i++ {
		line := buf[i*recordSize : (i+1)*recordSize]
		fields := strings.Fields(string(line))
		if len(fields) != 2 {
			return nil, fmt.Errorf("index: malformed post record %d: %q", rec.PostLineStart+i, line)
		}
		docID, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("index: malformed doc_id in post record %d: %w", rec.PostLineStart+i, err)
		}
		weight, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("index: malformed weight in post record %d: %w", rec.PostLineStart+i, err)
		}
		postings[i] = PostRecord{DocID: docID, Weight: weight}
	}
	return postings, nil
}

// DocName resolves a doc_id to its original file name by seeking
// directly to its record in the map file.
func (r *Reader) DocName(docID int) (string, error) {
	f, err := os.Open(filepath.Join(r.dir, "map"))
	if err != nil {
		return "", fmt.Errorf("index: opening map: %w", err)
	}
	defer f.Close()

	recordSize := r.Sizes.MapRecordSize()
	buf := make([]byte, recordSize)
	if _, err := f.ReadAt(buf, int64(docID)*int64(recordSize)); err != nil && err != io.EOF {
		return "", fmt.Errorf("index: reading map record %d: %w", docID, err)
	}
	return strings.TrimRight(string(buf), " \n"), nil
}
