// Package index implements the dictionary/posting aggregator, the
// fixed-width file writer, and the offset-arithmetic file reader: the
// on-disk inverted index and the in-memory structures that feed it.
package index

import "github.com/salvatore-campagna/lexsearch/hashtable"

// Sentinel terms occupying a dictionary slot that does not hold a live,
// retrievable term. NullSentinel terminates a probe; DeletedSentinel
// marks a rare-term tombstone and does not.
const (
	NullSentinel    = "!NULL"
	DeletedSentinel = "!DELETED"
)

// WeightMultiplier is the integer scaling factor (W in the TF-IDF
// formula) applied before truncating a weight to an integer.
const WeightMultiplier = 100000

// DocFrequency records one document's contribution to a term's global
// posting bucket.
type DocFrequency struct {
	DocID             uint64
	RawFrequency      uint64
	RelativeFrequency float64
}

// GlobalBucket is the ordered sequence of DocFrequency records stored
// under a term in the global table, one per document containing the
// term, in the order the documents were merged. With more than one
// indexing worker that is completion order, not document-enumeration
// order.
type GlobalBucket []DocFrequency

// NewGlobalTable constructs the fixed-capacity global term table. Its
// combine operation appends an incoming single-element bucket (produced
// per document by the aggregator) to the bucket already stored for the
// term.
func NewGlobalTable(capacity int) (*hashtable.Table[GlobalBucket], error) {
	return hashtable.New[GlobalBucket](capacity, hashtable.CombineBuckets[DocFrequency])
}

// NewDocumentTable constructs a per-document raw-count table. It grows
// past half load factor rather than failing, since the number of distinct
// terms in a single document is not known in advance.
func NewDocumentTable(capacity int) (*hashtable.Table[int], error) {
	return hashtable.NewGrowable[int](capacity, hashtable.CombineCounts)
}

// DictRecord is a parsed dictionary entry: a term, the number of
// documents in its posting bucket, and the offset (in posting records,
// not bytes) at which its postings begin.
type DictRecord struct {
	Term          string
	NumDocs       int
	PostLineStart int
}

// PostRecord is a single posting: a document id and its quantized
// TF-IDF weight for the term whose postings it belongs to.
type PostRecord struct {
	DocID  int
	Weight int
}

// FileSizes is the `sizes` metadata sidecar. NumDictLines is the number
// of dict lines. The other numeric field widths are the decimal-digit
// count of the largest value observed for that field during the build;
// MapNameLength and TermLength are byte counts of the longest document
// name and dict term (TermLength is at least len("!DELETED")). TermLength
// is not named in the field list implied by the original per-term
// record-size arithmetic, but some fixed width is unavoidable for a
// truly constant dict_record_size across different terms; it is recorded
// here alongside the named fields rather than invented ad hoc at read
// time.
type FileSizes struct {
	NumDictLines        int `json:"num_dict_lines"`
	PostLineStartLength int `json:"post_line_start_length"`
	NumDocsLength       int `json:"num_docs_length"`
	DocIDLength         int `json:"doc_id_length"`
	WeightLength        int `json:"weight_length"`
	MapNameLength       int `json:"map_name_length"`
	TermLength          int `json:"term_length"`
}

// DictRecordSize returns the fixed byte length of one `dict` line:
// term field + separator + num_docs field + separator + post_line_start
// field + newline.
func (s FileSizes) DictRecordSize() int {
	return s.TermLength + s.NumDocsLength + s.PostLineStartLength + 3
}

// PostRecordSize returns the fixed byte length of one `post` line:
// doc_id field + separator + weight field + newline.
func (s FileSizes) PostRecordSize() int {
	return s.DocIDLength + s.WeightLength + 2
}

// MapRecordSize returns the fixed byte length of one `map` line:
// file_name field + newline.
func (s FileSizes) MapRecordSize() int {
	return s.MapNameLength + 1
}

// isRare reports whether a bucket is small enough to be omitted from
// postings and tombstoned in the dictionary: at most one document and at
// most one total raw occurrence.
func isRare(bucket GlobalBucket) bool {
	if len(bucket) > 1 {
		return false
	}
	var total uint64
	for _, df := range bucket {
		total += df.RawFrequency
	}
	return total <= 1
}
