package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/denudge/course2zwift/csvsource"
	"github.com/denudge/course2zwift/pipeline"
)

var convertFlags struct {
	name         string
	description  string
	author       string
	sportType    string
	timeMode     string
	ftp          float64
	acceleration float64
	scale        float64
	raster       time.Duration
	out          string
	overwrite    bool
	dumpSegments string
}

var convertCmd = &cobra.Command{
	Use:   "convert <course.csv>",
	Short: "Build a workout file from a sparse course table",
	Long: `Build a workout file from a three-column CSV course table
(time, power in watts, optional text hint). Power carries forward until the
next row that changes it. Without --out the document is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := csvsource.ParseMode(convertFlags.timeMode)
		if err != nil {
			return err
		}

		res, err := pipeline.Run(pipeline.Options{
			InputPath:    args[0],
			OutPath:      convertFlags.out,
			Overwrite:    convertFlags.overwrite,
			Source:       pipeline.SourceCSV,
			FTPWatts:     convertFlags.ftp,
			Accel:        convertFlags.acceleration,
			PowerScale:   convertFlags.scale,
			Raster:       convertFlags.raster,
			TimeMode:     mode,
			Name:         convertFlags.name,
			Description:  convertFlags.description,
			Author:       convertFlags.author,
			SportType:    convertFlags.sportType,
			DumpSegments: convertFlags.dumpSegments,
		})
		if err != nil {
			return err
		}
		printSummary(res)
		return nil
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFlags.name, "name", "n", "", "workout name (required)")
	f.StringVarP(&convertFlags.description, "description", "d", "", "workout description")
	f.StringVarP(&convertFlags.author, "author", "A", defaultAuthor, "workout author")
	f.StringVarP(&convertFlags.sportType, "sport-type", "T", "ride", "sport type tag")
	f.StringVarP(&convertFlags.timeMode, "time-mode", "t", string(csvsource.ModeTime), `read the time column as "time" offsets or per-row "duration" lengths`)
	f.Float64Var(&convertFlags.ftp, "ftp", 0, "threshold power in watts (required)")
	f.Float64VarP(&convertFlags.acceleration, "acceleration", "a", 1.0, "time shrink factor (2.0 halves the clock)")
	f.Float64VarP(&convertFlags.scale, "scale", "s", 1.0, "power scale factor")
	f.DurationVarP(&convertFlags.raster, "raster", "r", pipeline.DefaultRaster, "slice width for step rasterization")
	f.StringVarP(&convertFlags.out, "out", "o", "", "output path (default: stdout)")
	f.BoolVar(&convertFlags.overwrite, "overwrite", false, "replace the output file if it already exists")
	f.StringVar(&convertFlags.dumpSegments, "dump-segments", "", "write pre-merge raster slices beside the output (csv|parquet)")
	cobra.CheckErr(convertCmd.MarkFlagRequired("name"))
	cobra.CheckErr(convertCmd.MarkFlagRequired("ftp"))

	rootCmd.AddCommand(convertCmd)
}
