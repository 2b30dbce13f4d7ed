package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"slicemix/internal/pipeline"
	"slicemix/internal/types"

	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	patternArg, _ := cmd.Flags().GetString("pattern")
	realtime, _ := cmd.Flags().GetBool("realtime")
	random, _ := cmd.Flags().GetBool("random")
	tmp, _ := cmd.Flags().GetString("tmp")
	fps, _ := cmd.Flags().GetInt("fps")
	ms, _ := cmd.Flags().GetInt("ms")
	verbose, _ := cmd.Flags().GetBool("verbose")
	rate, _ := cmd.Flags().GetInt("rate")
	seed, _ := cmd.Flags().GetInt64("seed")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	soxPath, _ := cmd.Flags().GetString("sox")
	soxiPath, _ := cmd.Flags().GetString("soxi")

	inputs := splitList(input)

	pattern, err := parsePattern(patternArg, len(inputs))
	if err != nil {
		return types.Exit(types.ExitTooFewInputs, err)
	}

	sliceLen, err := sliceLength(fps, ms)
	if err != nil {
		return types.Exit(types.ExitTooFewInputs, err)
	}

	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	cfg := pipeline.Config{
		Inputs:   inputs,
		Output:   output,
		Pattern:  pattern,
		Realtime: realtime,
		Random:   random,
		SliceLen: sliceLen,
		Rate:     rate,
		TmpDir:   tmp,
		Seed:     seed,
		Timeout:  timeout,
		SoxPath:  firstNonEmpty(soxPath, getenvDefault("SLICEMIX_SOX_PATH", "")),
		SoxiPath: firstNonEmpty(soxiPath, getenvDefault("SLICEMIX_SOXI_PATH", "")),
		Logf:     logf,
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return pipeline.Run(context.Background(), cfg)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ":") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePattern parses "n:n:n" into per-input weights. An empty pattern means
// flat round-robin: one weight of 1 per input.
func parsePattern(s string, inputs int) ([]int, error) {
	if s == "" {
		p := make([]int, inputs)
		for i := range p {
			p[i] = 1
		}
		return p, nil
	}
	parts := splitList(s)
	p := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("pattern entry %q: %w", part, err)
		}
		p = append(p, n)
	}
	return p, nil
}

func sliceLength(fps, ms int) (time.Duration, error) {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond, nil
	}
	if fps <= 0 {
		return 0, fmt.Errorf("fps must be > 0, got %d", fps)
	}
	return time.Second / time.Duration(fps), nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
