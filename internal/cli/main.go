package cli

import (
	"errors"
	"fmt"
	"os"

	"slicemix/internal/types"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "slicemix",
		Short:        "Slice audio sources and weave them into one output track",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("input", "", "Colon-separated input audio paths (at least two)")
	root.Flags().String("output", "", "Output audio path")
	root.Flags().String("pattern", "", "Colon-separated per-input weights, e.g. 2:1 (default all 1s)")
	root.Flags().Bool("realtime", false, "Drop slices on a period tied to pattern length")
	root.Flags().Bool("random", false, "Shuffle slices instead of pattern weaving")
	root.Flags().String("tmp", "", "Staging directory (default under the system temp dir)")
	root.Flags().Int("fps", 24, "Slices per second")
	root.Flags().Int("ms", 0, "Slice length in milliseconds (overrides --fps)")
	root.Flags().Bool("verbose", false, "Log progress to stderr")

	// Tuning flags (internal)
	root.Flags().Int("rate", 44100, "Sample rate all slices are resampled to")
	root.Flags().Int64("seed", 0, "Random seed (0 = time-based)")
	root.Flags().Duration("timeout", 0, "Abort the run after this duration (0 = none)")
	root.Flags().String("sox", "", "Path to the sox binary")
	root.Flags().String("soxi", "", "Path to the soxi binary")
	_ = root.Flags().MarkHidden("rate")
	_ = root.Flags().MarkHidden("seed")
	_ = root.Flags().MarkHidden("timeout")
	_ = root.Flags().MarkHidden("sox")
	_ = root.Flags().MarkHidden("soxi")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *types.ExitError
		if errors.As(err, &ee) {
			os.Exit(ee.Code)
		}
		os.Exit(1)
	}
}
