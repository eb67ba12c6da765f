package index

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/salvatore-campagna/lexsearch/hashtable"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// dictLine is a fully resolved dictionary entry ready for width
// computation and serialization: either a sentinel or a live term with
// its posting-file offset.
type dictLine struct {
	term          string
	numDocs       int
	postLineStart int
	bucket        GlobalBucket // nil for sentinel lines, not written to post
}

// WriteIndex serializes the global table and document map into the four
// fixed-width files (`sizes`, `dict`, `post`, `map`) under dir, in that
// write order since sizes' values are required to pad the other three.
// docNames must be indexed by doc_id. All four files are opened
// write-truncate; on any I/O error the partially written directory is
// left in place, matching the non-recoverable indexing-write failure
// mode.
func WriteIndex(dir string, global *hashtable.Table[GlobalBucket], totalDocs int, docNames []string) error {
	lines := buildDictLines(global.Buckets())
	sizes := computeFileSizes(lines, totalDocs, docNames)

	if err := writeSizes(dir, sizes); err != nil {
		return fmt.Errorf("index: writing sizes: %w", err)
	}
	if err := writeDict(dir, sizes, lines); err != nil {
		return fmt.Errorf("index: writing dict: %w", err)
	}
	if err := writePost(dir, sizes, lines, totalDocs); err != nil {
		return fmt.Errorf("index: writing post: %w", err)
	}
	if err := writeMap(dir, sizes, docNames); err != nil {
		return fmt.Errorf("index: writing map: %w", err)
	}
	return nil
}

// buildDictLines walks the global table's slots in order, assigning
// post_line_start offsets to non-rare buckets and tombstoning rare ones,
// exactly mirroring dictionary slot order onto the output file's line
// order.
func buildDictLines(slots []hashtable.Entry[GlobalBucket]) []dictLine {
	lines := make([]dictLine, len(slots))
	count := 0
	for i, slot := range slots {
		switch {
		case !slot.Used:
			lines[i] = dictLine{term: NullSentinel}
		case isRare(slot.Value):
			lines[i] = dictLine{term: DeletedSentinel}
		default:
			lines[i] = dictLine{
				term:          slot.Key,
				numDocs:       len(slot.Value),
				postLineStart: count,
				bucket:        slot.Value,
			}
			count += len(slot.Value)
		}
	}
	return lines
}

// computeFileSizes scans the resolved dict lines and document names once
// to find the maximum decimal width (or character count, for names and
// terms) each field needs.
func computeFileSizes(lines []dictLine, totalDocs int, docNames []string) FileSizes {
	termLen := len(DeletedSentinel)
	numDocsLen := 1
	postStartLen := 1
	docIDLen := 1
	weightLen := 1

	for _, ln := range lines {
		termLen = maxInt(termLen, len(ln.term))
		numDocsLen = maxInt(numDocsLen, digitLen(ln.numDocs))
		postStartLen = maxInt(postStartLen, digitLen(ln.postLineStart))
		for _, df := range ln.bucket {
			docIDLen = maxInt(docIDLen, digitLen(int(df.DocID)))
			w := computeWeight(df.RelativeFrequency, totalDocs, ln.numDocs)
			weightLen = maxInt(weightLen, digitLen(w))
		}
	}
	if totalDocs > 0 {
		docIDLen = maxInt(docIDLen, digitLen(totalDocs-1))
	}

	nameLen := 0
	for _, name := range docNames {
		nameLen = maxInt(nameLen, len(name))
	}

	return FileSizes{
		NumDictLines:        len(lines),
		PostLineStartLength: postStartLen,
		NumDocsLength:       numDocsLen,
		DocIDLength:         docIDLen,
		WeightLength:        weightLen,
		MapNameLength:       nameLen,
		TermLength:          termLen,
	}
}

// computeWeight applies the quantized TF-IDF formula:
// floor(rtf * (1 + log10(totalDocs/numDocs)) * W).
func computeWeight(relativeFrequency float64, totalDocs, numDocs int) int {
	if totalDocs == 0 || numDocs == 0 {
		return 0
	}
	idf := 1 + math.Log10(float64(totalDocs)/float64(numDocs))
	return int(math.Floor(relativeFrequency * idf * WeightMultiplier))
}

func writeSizes(dir string, sizes FileSizes) error {
	data, err := jsonAPI.Marshal(sizes)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "sizes"), data, 0o644)
}

func writeDict(dir string, sizes FileSizes, lines []dictLine) error {
	f, err := os.Create(filepath.Join(dir, "dict"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ln := range lines {
		_, err := fmt.Fprintf(w, "%-*s %-*s %-*s\n",
			sizes.TermLength, ln.term,
			sizes.NumDocsLength, strconv.Itoa(ln.numDocs),
			sizes.PostLineStartLength, strconv.Itoa(ln.postLineStart),
		)
		if err != nil {
			return err
		}
	}
	return w.Flush()
}

func writePost(dir string, sizes FileSizes, lines []dictLine, totalDocs int) error {
	f, err := os.Create(filepath.Join(dir, "post"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ln := range lines {
		if ln.bucket == nil {
			continue
		}
		for _, df := range ln.bucket {
			weight := computeWeight(df.RelativeFrequency, totalDocs, ln.numDocs)
			_, err := fmt.Fprintf(w, "%-*s %-*s\n",
				sizes.DocIDLength, strconv.FormatUint(df.DocID, 10),
				sizes.WeightLength, strconv.Itoa(weight),
			)
			if err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func writeMap(dir string, sizes FileSizes, docNames []string) error {
	f, err := os.Create(filepath.Join(dir, "map"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, name := range docNames {
		if _, err := fmt.Fprintf(w, "%-*s\n", sizes.MapNameLength, name); err != nil {
			return err
		}
	}
	return w.Flush()
}

func digitLen(n int) int {
	return len(strconv.Itoa(n))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
