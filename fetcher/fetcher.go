// Package fetcher loads the stopword list the indexer filters out of
// every document, from either a local file path or a URL, mirroring the
// teacher's own local-file/URL fallback for loading input data.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// FetchBytes fetches raw bytes from either a URL or a local file path.
func FetchBytes(path string) ([]byte, error) {
	// Check if the path is a URL (starts with "http" or "https")
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		response, err := http.Get(path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stopwords: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("non-ok HTTP response: %s", response.Status)
		}

		data, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, nil
	}

	// Treat it as a local file path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file: %w", err)
	}
	return data, nil
}

// ParseStopwords splits one-word-per-line stopword data into a trimmed,
// non-empty word list. Blank lines are dropped; words are lower-cased
// since they're compared against already-lowercased tokenizer output.
func ParseStopwords(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		words = append(words, strings.ToLower(word))
	}
	return words
}

// LoadStopwords fetches and parses a stopword list in one call. If path
// is empty, it returns an empty list rather than an error, since a
// stopword list is optional.
func LoadStopwords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := FetchBytes(path)
	if err != nil {
		return nil, err
	}
	return ParseStopwords(data), nil
}
