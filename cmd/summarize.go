package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ipsim/ipsim/sim/profile"
)

var (
	summarizeInput  string
	summarizeSites  int
	summarizeDtShot int
	summarizeOutput string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Compute per-shot statistics of a saved profile",
	Long:  "Read a text profile written by 'run' and emit one CSV row per shot. Output is written to stdout unless --output is set.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := summarizeProfile(os.Stdout, summarizeInput, summarizeSites, summarizeDtShot, summarizeOutput); err != nil {
			logrus.Fatalf("Failed to summarize %s: %v", summarizeInput, err)
		}
	},
}

// summarizeProfile loads the text profile at input and writes its per-shot
// CSV to output, or to stdout when output is empty.
func summarizeProfile(stdout io.Writer, input string, sites, dtShot int, output string) error {
	prof, err := profile.LoadText(input, sites)
	if err != nil {
		return err
	}
	rows := profile.Summarize(prof, dtShot)
	if output == "" {
		return profile.WriteSummaryCSV(stdout, rows)
	}
	return saveSummary(output, rows)
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInput, "input", "", "Path of a text profile")
	summarizeCmd.Flags().IntVar(&summarizeSites, "ring-size", 5000, "Number of sites per shot in the profile")
	summarizeCmd.Flags().IntVar(&summarizeDtShot, "dt-shot", 5000, "Attempts between shots, to label rows with time")
	summarizeCmd.Flags().StringVar(&summarizeOutput, "output", "", "CSV output path (default stdout)")
	_ = summarizeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(summarizeCmd)
}
