package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"slicemix/internal/domain/slicing"
	"slicemix/internal/domain/weave"
	"slicemix/internal/ports"
	"slicemix/internal/render"
	"slicemix/internal/types"
	"slicemix/internal/workspace"
)

type Deps struct {
	Audio ports.AudioTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Inputs   []string
	Output   string
	Pattern  []int
	Realtime bool
	Random   bool
	SliceLen time.Duration
	Rate     int
	Rand     *rand.Rand

	Workspace *workspace.Workspace
	Logf      func(format string, args ...any)
}

type Result struct {
	Sources []types.Source
	Plan    weave.Plan
}

// Run drives one full resequencing pass: reset the workspace, slice every
// input into it, weave the inventory into a render plan, render the output,
// then reset the workspace again. Each stage failure carries its exit code.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	ws := in.Workspace

	if err := ws.Reset(logf); err != nil {
		return Result{}, types.Exit(types.ExitWorkspace, err)
	}

	// Mid-pipeline failures still tidy the staging area; a cleanup
	// failure here never masks the stage's own error.
	cleanup := func() {
		if err := ws.Reset(logf); err != nil {
			logf("cleanup: %v", err)
		}
	}

	sources := make([]types.Source, 0, len(in.Inputs))
	for i, path := range in.Inputs {
		d, err := u.d.Audio.ProbeDuration(ctx, path)
		if err != nil {
			return Result{}, types.Exit(types.ExitProbe, err)
		}
		src := types.Source{Path: path, Index: i, Duration: d}
		specs := slicing.Derive(d, in.SliceLen)
		logf("input %d: %s (%.2fs, %d slices)", i, path, d.Seconds(), len(specs))
		for _, sp := range specs {
			dst := ws.Path(ws.StagedName(sp.Index, i))
			if err := u.d.Audio.ExtractSlice(ctx, path, dst, in.Rate, sp.Offset, sp.Length); err != nil {
				cleanup()
				return Result{}, types.Exit(types.ExitExtract, err)
			}
		}
		sources = append(sources, src)
	}

	plan, err := weave.Weave(ws, in.Pattern, weave.Options{
		Realtime: in.Realtime,
		Random:   in.Random,
		Rand:     in.Rand,
		Logf:     logf,
	})
	if err != nil {
		var re *weave.RenameError
		if errors.As(err, &re) {
			return Result{}, types.Exit(types.ExitRename, err)
		}
		return Result{}, types.Exit(types.ExitWeave, err)
	}
	logf("weave: %s mode kept %d slices", weave.ChooseStrategy(in.Pattern, in.Random), len(plan))

	if err := render.Render(ctx, u.d.Audio, ws, plan, in.Output); err != nil {
		cleanup()
		return Result{}, types.Exit(types.ExitRender, err)
	}
	logf("rendered %s", in.Output)

	if err := ws.Reset(logf); err != nil {
		return Result{}, types.Exit(types.ExitFinalCleanup, err)
	}

	return Result{Sources: sources, Plan: plan}, nil
}
