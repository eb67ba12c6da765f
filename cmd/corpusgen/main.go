// Command corpusgen writes a directory of synthetic .txt documents built
// from a fixed vocabulary, for exercising the indexer end to end.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var vocabulary = []string{
	"jedi", "force", "skywalker", "sith", "lightsaber", "empire", "rebellion", "droid",
	"blaster", "starship", "yoda", "clone", "trooper", "battle", "padawan", "hologram",
	"bounty", "hunter", "coruscant", "tatooine", "deathstar", "vader", "han", "chewbacca",
	"leia", "luke", "anakin", "grievous", "obiwan", "quigon", "naboo", "geonosis",
	"kamino", "mustafar", "dagobah", "endor", "hoth", "alderaan", "kashyyyk", "lando",
	"carbonite", "lightspeed", "hyperdrive", "holocron", "starfighter", "speeder", "cantina",
	"protocol", "gungan", "wookiee",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outDir       string
		numDocuments int
		wordsPerDoc  int
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "corpusgen",
		Short: "Generate a synthetic document corpus from a fixed vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return fmt.Errorf("--outdir is required")
			}
			return generateCorpus(outDir, numDocuments, wordsPerDoc, rand.New(rand.NewSource(seed)))
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", "", "Directory to write generated documents into")
	cmd.Flags().IntVar(&numDocuments, "num-documents", 100, "Number of documents to generate")
	cmd.Flags().IntVar(&wordsPerDoc, "words-per-document", 50, "Number of vocabulary words per document")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed, for reproducible corpora")

	return cmd
}

func generateCorpus(outDir string, numDocuments, wordsPerDoc int, rng *rand.Rand) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}

	for i := 0; i < numDocuments; i++ {
		name := fmt.Sprintf("doc-%05d.txt", i)
		body := generateDocument(rng, wordsPerDoc)
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	fmt.Printf("wrote %d documents to %s\n", numDocuments, outDir)
	return nil
}

func generateDocument(rng *rand.Rand, wordsPerDoc int) string {
	words := make([]string, wordsPerDoc)
	for i := range words {
		words[i] = vocabulary[rng.Intn(len(vocabulary))]
	}
	return strings.Join(words, " ") + "\n"
}
