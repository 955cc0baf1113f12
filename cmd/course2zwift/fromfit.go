package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/denudge/course2zwift/fitsource"
	"github.com/denudge/course2zwift/pipeline"
)

var fromfitFlags struct {
	name         string
	description  string
	author       string
	sportType    string
	ftp          float64
	acceleration float64
	scale        float64
	raster       time.Duration
	window       time.Duration
	quantize     float64
	out          string
	overwrite    bool
	dumpSegments string
}

var fromfitCmd = &cobra.Command{
	Use:   "fromfit <ride.fit>",
	Short: "Build a workout file from a recorded ride",
	Long: `Build a workout file from an activity FIT file. The ride's power
trace is smoothed, quantized and reduced to its change points; lap boundaries
become text hints. Without --ftp the session's threshold power is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := pipeline.Run(pipeline.Options{
			InputPath:     args[0],
			OutPath:       fromfitFlags.out,
			Overwrite:     fromfitFlags.overwrite,
			Source:        pipeline.SourceFIT,
			FTPWatts:      fromfitFlags.ftp,
			Accel:         fromfitFlags.acceleration,
			PowerScale:    fromfitFlags.scale,
			Raster:        fromfitFlags.raster,
			Name:          fromfitFlags.name,
			Description:   fromfitFlags.description,
			Author:        fromfitFlags.author,
			SportType:     fromfitFlags.sportType,
			DumpSegments:  fromfitFlags.dumpSegments,
			Window:        fromfitFlags.window,
			QuantizeWatts: fromfitFlags.quantize,
		})
		if err != nil {
			return err
		}
		printSummary(res)
		return nil
	},
}

func init() {
	f := fromfitCmd.Flags()
	f.StringVarP(&fromfitFlags.name, "name", "n", "", "workout name (required)")
	f.StringVarP(&fromfitFlags.description, "description", "d", "", "workout description")
	f.StringVarP(&fromfitFlags.author, "author", "A", defaultAuthor, "workout author")
	f.StringVarP(&fromfitFlags.sportType, "sport-type", "T", "", "sport type tag (default: the session's sport, else ride)")
	f.Float64Var(&fromfitFlags.ftp, "ftp", 0, "threshold power in watts (default: session threshold power)")
	f.Float64VarP(&fromfitFlags.acceleration, "acceleration", "a", 1.0, "time shrink factor (2.0 halves the clock)")
	f.Float64VarP(&fromfitFlags.scale, "scale", "s", 1.0, "power scale factor")
	f.DurationVarP(&fromfitFlags.raster, "raster", "r", pipeline.DefaultRaster, "slice width for step rasterization")
	f.DurationVar(&fromfitFlags.window, "window", fitsource.DefaultWindow, "rolling-average window for the power trace")
	f.Float64Var(&fromfitFlags.quantize, "quantize", fitsource.DefaultQuantize, "watt step the power trace is snapped to")
	f.StringVarP(&fromfitFlags.out, "out", "o", "", "output path (default: stdout)")
	f.BoolVar(&fromfitFlags.overwrite, "overwrite", false, "replace the output file if it already exists")
	f.StringVar(&fromfitFlags.dumpSegments, "dump-segments", "", "write pre-merge raster slices beside the output (csv|parquet)")
	cobra.CheckErr(fromfitCmd.MarkFlagRequired("name"))

	rootCmd.AddCommand(fromfitCmd)
}
