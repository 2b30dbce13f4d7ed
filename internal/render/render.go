// Package render turns an ordered slice plan into the final output file.
// Concatenation inputs are passed to the audio tool as arguments, so long
// plans are folded through one level of intermediate chunks to keep argument
// lists within tool limits.
package render

import (
	"context"
	"errors"

	"slicemix/internal/ports"
	"slicemix/internal/workspace"
)

// PartSize is the largest number of files handed to a single concatenate
// call. Plans up to PartSize*PartSize slices render in two levels.
const PartSize = 500

// Render concatenates the plan's slices, in order, into out.
func Render(ctx context.Context, tool ports.AudioTool, ws *workspace.Workspace, plan []string, out string) error {
	return render(ctx, tool, ws, plan, out, PartSize)
}

func render(ctx context.Context, tool ports.AudioTool, ws *workspace.Workspace, plan []string, out string, partSize int) error {
	if len(plan) == 0 {
		return errors.New("render: empty plan")
	}

	if len(plan) <= partSize {
		return tool.Concatenate(ctx, paths(ws, plan), out)
	}

	var parts []string
	for i := 0; i*partSize < len(plan); i++ {
		lo := i * partSize
		hi := lo + partSize
		if hi > len(plan) {
			hi = len(plan)
		}
		part := ws.PartName(i)
		if err := tool.Concatenate(ctx, paths(ws, plan[lo:hi]), ws.Path(part)); err != nil {
			return err
		}
		parts = append(parts, ws.Path(part))
	}
	return tool.Concatenate(ctx, parts, out)
}

func paths(ws *workspace.Workspace, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = ws.Path(n)
	}
	return out
}
