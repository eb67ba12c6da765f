// Command index builds a full-text index from a directory of documents.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/salvatore-campagna/lexsearch/fetcher"
	"github.com/salvatore-campagna/lexsearch/indexer"
)

func main() {
	klog.InitFlags(nil)
	if err := newRootCmd().Execute(); err != nil {
		klog.Fatalf("index: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inDir      string
		outDir     string
		stopPath   string
		numThreads int
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build a full-text index from a directory of documents",
		Long: `index tokenizes every file in --indir, aggregates term
statistics into a single in-memory table, and writes the four fixed-width
index files (dict, post, map, sizes) into --outdir.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inDir == "" {
				return fmt.Errorf("--indir is required")
			}
			if outDir == "" {
				return fmt.Errorf("--outdir is required")
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}

			words, err := fetcher.LoadStopwords(stopPath)
			if err != nil {
				klog.Warningf("loading stopwords from %s: %v", stopPath, err)
			}

			cfg := indexer.Config{
				InDir:      inDir,
				OutDir:     outDir,
				Stopwords:  indexer.NewStopwords(words),
				NumThreads: numThreads,
			}
			return indexer.Build(context.Background(), cfg)
		},
	}

	cmd.Flags().StringVar(&inDir, "indir", "", "Directory of documents to index")
	cmd.Flags().StringVar(&outDir, "outdir", "", "Directory to write the index files into")
	cmd.Flags().StringVar(&stopPath, "stop-path", "./stopwords", "Path or URL to the stopword list")
	cmd.Flags().IntVar(&numThreads, "num-threads", runtime.NumCPU(), "Number of tokenization workers")

	return cmd
}
