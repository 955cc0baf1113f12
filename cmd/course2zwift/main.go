// Command course2zwift converts sparse course tables and recorded rides into
// Zwift workout files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/denudge/course2zwift/pipeline"
)

const defaultAuthor = "Mathias Lieber"

var rootCmd = &cobra.Command{
	Use:          "course2zwift",
	Short:        "Convert course tables and recorded rides into Zwift workout files",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printSummary reports the run the way a batch tool should: one line per
// artifact. Skipped entirely when the document went to stdout.
func printSummary(res *pipeline.Result) {
	if res.WorkoutPath == "" {
		return
	}
	fmt.Printf("workout file:  %s\n", res.WorkoutPath)
	fmt.Printf("steps:         %d (from %d raster slices)\n", res.StepCount, res.SegmentCount)
	fmt.Printf("duration:      %s\n", res.TotalDuration)
	fmt.Printf("ftp used:      %.0f W\n", res.FTPWatts)
	if res.ManifestPath != "" {
		fmt.Printf("manifest:      %s\n", res.ManifestPath)
	}
	if res.SegmentsPath != "" {
		fmt.Printf("segment dump:  %s\n", res.SegmentsPath)
	}
}
