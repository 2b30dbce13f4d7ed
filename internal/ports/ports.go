package ports

import (
	"context"
	"time"
)

// AudioTool is the external audio toolkit the pipeline delegates all
// byte-level work to. Implementations resample every extracted slice to the
// given rate so slices from different sources concatenate cleanly.
type AudioTool interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	ExtractSlice(ctx context.Context, src, dst string, rate int, offset, length time.Duration) error
	Concatenate(ctx context.Context, inputs []string, dst string) error
}
