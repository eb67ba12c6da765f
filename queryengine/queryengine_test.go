package queryengine_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salvatore-campagna/lexsearch/indexer"
	"github.com/salvatore-campagna/lexsearch/queryengine"
)

func buildIndex(t *testing.T, files map[string]string) string {
	t.Helper()
	inDir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte(contents), 0o644))
	}
	outDir := t.TempDir()
	cfg := indexer.Config{InDir: inDir, OutDir: outDir, NumThreads: 2}
	require.NoError(t, indexer.Build(context.Background(), cfg))
	return outDir
}

func TestEvaluateBananaRanksD2AboveD1(t *testing.T) {
	dir := buildIndex(t, map[string]string{
		"d1.txt": "apple apple banana",
		"d2.txt": "banana cherry",
	})

	results, err := queryengine.Evaluate(dir, "banana", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "d2.txt", results[0].Name)
	require.Equal(t, "d1.txt", results[1].Name)
	require.Greater(t, results[0].Weight, results[1].Weight)
}

func TestEvaluateAppleOnlyMatchesD1(t *testing.T) {
	dir := buildIndex(t, map[string]string{
		"d1.txt": "apple apple banana",
		"d2.txt": "banana cherry",
	})

	results, err := queryengine.Evaluate(dir, "apple", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "d1.txt", results[0].Name)
}

func TestEvaluateQueryPunctuationSplitsWords(t *testing.T) {
	// foo and bar occur twice so they are not tombstoned as rare terms.
	dir := buildIndex(t, map[string]string{
		"d1.txt": "foo bar baz foo bar",
	})

	results, err := queryengine.Evaluate(dir, "FOO.Bar!", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "d1.txt", results[0].Name)
}

func TestEvaluateEmptyQueryReturnsEmpty(t *testing.T) {
	dir := buildIndex(t, map[string]string{"d1.txt": "apple banana"})

	results, err := queryengine.Evaluate(dir, "", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestEvaluateAllTokensMissingReturnsEmpty(t *testing.T) {
	dir := buildIndex(t, map[string]string{"d1.txt": "apple banana"})

	results, err := queryengine.Evaluate(dir, "zzzznotpresent", 10)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestEvaluateHundredDocsNumResultsCutoff(t *testing.T) {
	files := make(map[string]string, 100)
	for i := 0; i < 100; i++ {
		files[fmt.Sprintf("doc%03d.txt", i)] = "foo"
	}
	dir := buildIndex(t, files)

	results, err := queryengine.Evaluate(dir, "foo", 5)
	require.NoError(t, err)
	require.Len(t, results, 5)
}
