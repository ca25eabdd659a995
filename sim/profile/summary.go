package profile

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ipsim/ipsim/sim"
)

// ShotSummary holds the moments of one shot of a profile.
type ShotSummary struct {
	Shot      int     `csv:"shot"`
	Time      int64   `csv:"time"` // shot * dt_shot, in accelerated time units
	Mean      float64 `csv:"mean"`
	StdDev    float64 `csv:"std_dev"`
	Min       float64 `csv:"min"`
	Max       float64 `csv:"max"`
	LeftMean  float64 `csv:"left_mean"`  // sites [0, N/2); 0 when N = 1
	RightMean float64 `csv:"right_mean"` // sites [N/2, N)
}

// Summarize computes one ShotSummary per shot. dtShot converts the shot index
// into simulated time.
func Summarize(p *sim.Profile, dtShot int) []ShotSummary {
	half := p.Sites / 2
	out := make([]ShotSummary, p.Shots)
	for s := 0; s < p.Shots; s++ {
		row := p.Row(s)
		mean, std := stat.MeanStdDev(row, nil)
		if len(row) < 2 {
			std = 0
		}
		sum := ShotSummary{
			Shot:      s,
			Time:      int64(s) * int64(dtShot),
			Mean:      mean,
			StdDev:    std,
			Min:       floats.Min(row),
			Max:       floats.Max(row),
			RightMean: stat.Mean(row[half:], nil),
		}
		if half > 0 {
			sum.LeftMean = stat.Mean(row[:half], nil)
		}
		out[s] = sum
	}
	return out
}

// WriteSummaryCSV writes summaries with a header row.
func WriteSummaryCSV(w io.Writer, summaries []ShotSummary) error {
	if err := gocsv.Marshal(summaries, w); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
