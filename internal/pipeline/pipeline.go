package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"slicemix/internal/ports"
	"slicemix/internal/ports/adapters/sox"
	"slicemix/internal/types"
	"slicemix/internal/usecase"
	"slicemix/internal/workspace"
)

type Config struct {
	Inputs   []string
	Output   string
	Pattern  []int
	Realtime bool
	Random   bool

	// SliceLen is the nominal slice duration. Derived from --fps unless
	// --ms overrides it.
	SliceLen time.Duration

	// Rate is the sample rate every slice is resampled to.
	Rate int

	// TmpDir is the staging workspace root. If empty, a directory under
	// the system temp dir is used.
	TmpDir string

	// Seed makes random mode deterministic when non-zero.
	Seed int64

	// Timeout bounds the whole run; zero means no timeout.
	Timeout time.Duration

	SoxPath  string
	SoxiPath string

	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	if len(c.Inputs) < 2 {
		return types.Exit(types.ExitTooFewInputs, errors.New("at least two inputs are required"))
	}
	for _, in := range c.Inputs {
		if _, err := os.Stat(in); err != nil {
			return types.Exit(types.ExitTooFewInputs, fmt.Errorf("stat input: %w", err))
		}
	}
	if c.Output == "" {
		return types.Exit(types.ExitMissingOutput, errors.New("output path is required"))
	}
	if len(c.Pattern) != len(c.Inputs) {
		return types.Exit(types.ExitTooFewInputs,
			fmt.Errorf("pattern has %d entries for %d inputs", len(c.Pattern), len(c.Inputs)))
	}
	for _, w := range c.Pattern {
		if w <= 0 {
			return types.Exit(types.ExitTooFewInputs, fmt.Errorf("pattern weight %d must be positive", w))
		}
	}
	if c.SliceLen <= 0 {
		return types.Exit(types.ExitTooFewInputs, errors.New("slice length must be > 0"))
	}
	if c.Rate <= 0 {
		return types.Exit(types.ExitTooFewInputs, errors.New("sample rate must be > 0"))
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	tool := sox.New(cfg.SoxPath, cfg.SoxiPath)
	if err := tool.Installed(); err != nil {
		return types.Exit(types.ExitToolMissing, err)
	}

	tmp := cfg.TmpDir
	if tmp == "" {
		tmp = filepath.Join(os.TempDir(), "slicemix")
	}
	ws := workspace.New(tmp)
	logf("workspace: %s", ws.Root())

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	uc := usecase.New(usecase.Deps{Audio: tool})
	_, err := uc.Run(ctx, usecase.Input{
		Inputs:    cfg.Inputs,
		Output:    cfg.Output,
		Pattern:   cfg.Pattern,
		Realtime:  cfg.Realtime,
		Random:    cfg.Random,
		SliceLen:  cfg.SliceLen,
		Rate:      cfg.Rate,
		Rand:      rng,
		Workspace: ws,
		Logf:      logf,
	})
	return err
}

// ensure the adapter implements the port
var _ ports.AudioTool = (*sox.Adapter)(nil)
