// Command query answers a single ranked keyword query against a built
// index directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/salvatore-campagna/lexsearch/queryengine"
)

func main() {
	klog.InitFlags(nil)
	if err := newRootCmd().Execute(); err != nil {
		klog.Fatalf("query: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		directory  string
		query      string
		numResults int
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer a keyword query against a built index",
		Example: `  query -d ./index -q "quick brown fox"
  query --directory ./index --query "golang" --num-results 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if directory == "" {
				return fmt.Errorf("-d/--directory is required")
			}
			results, err := queryengine.Evaluate(directory, query, numResults)
			if err != nil {
				return err
			}
			printResults(results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Index directory")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string")
	cmd.Flags().IntVarP(&numResults, "num-results", "n", queryengine.DefaultNumResults, "Maximum number of results")

	return cmd
}

func printResults(results []queryengine.Result) {
	if len(results) == 0 {
		fmt.Println(emptyStyle.Render("no results"))
		return
	}
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%s %s %s\n",
			rankStyle.Render(fmt.Sprintf("%d:", i+1)),
			nameStyle.Render(r.Name),
			weightStyle.Render(fmt.Sprintf("(weight: %d)", r.Weight)),
		)
	}
}
