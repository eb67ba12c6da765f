// Command stats prints dictionary occupancy and posting-file size
// statistics for a built index directory, adapted from the teacher's
// tabular segment-statistics printer.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/salvatore-campagna/lexsearch/index"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a73e8"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f6368")).Width(22)
	valueStyle  = lipgloss.NewStyle().Bold(true)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print occupancy and tombstone statistics for a built index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if directory == "" {
				return fmt.Errorf("-d/--directory is required")
			}
			return printStats(directory)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Index directory")
	return cmd
}

type occupancy struct {
	slots    int
	null     int
	deleted  int
	live     int
	postSize int64
	mapSize  int64
}

func computeOccupancy(dir string, sizes index.FileSizes) (occupancy, error) {
	data, err := os.ReadFile(filepath.Join(dir, "dict"))
	if err != nil {
		return occupancy{}, fmt.Errorf("reading dict: %w", err)
	}

	recordSize := sizes.DictRecordSize()
	occ := occupancy{slots: sizes.NumDictLines}
	for i := 0; i < sizes.NumDictLines; i++ {
		start := i * recordSize
		end := start + recordSize
		if end > len(data) {
			break
		}
		term := strings.Fields(string(data[start:end]))[0]
		switch term {
		case index.NullSentinel:
			occ.null++
		case index.DeletedSentinel:
			occ.deleted++
		default:
			occ.live++
		}
	}

	if info, err := os.Stat(filepath.Join(dir, "post")); err == nil {
		occ.postSize = info.Size()
	}
	if info, err := os.Stat(filepath.Join(dir, "map")); err == nil {
		occ.mapSize = info.Size()
	}
	return occ, nil
}

func printStats(dir string) error {
	r, err := index.OpenReader(dir)
	if err != nil {
		return err
	}

	occ, err := computeOccupancy(dir, r.Sizes)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Index statistics"))
	row := func(label string, value interface{}) {
		fmt.Printf("%s %s\n", labelStyle.Render(label), valueStyle.Render(fmt.Sprintf("%v", value)))
	}
	row("dict slots", occ.slots)
	row("live terms", occ.live)
	row("tombstoned (rare)", occ.deleted)
	row("empty slots", occ.null)
	row("post file bytes", occ.postSize)
	row("map file bytes", occ.mapSize)
	row("dict record size", r.Sizes.DictRecordSize())
	row("post record size", r.Sizes.PostRecordSize())
	row("map record size", r.Sizes.MapRecordSize())
	return nil
}
