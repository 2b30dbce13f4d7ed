package sox

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	sox  string
	soxi string
}

func New(soxPath, soxiPath string) *Adapter {
	if soxPath == "" {
		soxPath = "sox"
	}
	if soxiPath == "" {
		soxiPath = "soxi"
	}
	return &Adapter{sox: soxPath, soxi: soxiPath}
}

// Installed reports whether both binaries resolve on PATH.
func (a *Adapter) Installed() error {
	if _, err := exec.LookPath(a.sox); err != nil {
		return fmt.Errorf("sox not found: %w", err)
	}
	if _, err := exec.LookPath(a.soxi); err != nil {
		return fmt.Errorf("soxi not found: %w", err)
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.soxi, "-D", path)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("soxi duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) ExtractSlice(ctx context.Context, src, dst string, rate int, offset, length time.Duration) error {
	cmd := exec.CommandContext(ctx, a.sox,
		src,
		"-r", strconv.Itoa(rate),
		dst,
		"trim", fmtSeconds(offset), fmtSeconds(length),
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sox extract slice: %w\n%s", err, string(b))
	}
	return nil
}

// Concatenate joins the inputs in order into dst. The inputs are passed as
// argv, which is why the renderer chunks long plans before calling here.
func (a *Adapter) Concatenate(ctx context.Context, inputs []string, dst string) error {
	args := make([]string, 0, len(inputs)+1)
	args = append(args, inputs...)
	args = append(args, dst)
	cmd := exec.CommandContext(ctx, a.sox, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sox concatenate: %w\n%s", err, string(b))
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
