package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slicemix/internal/types"
	"slicemix/internal/workspace"
)

type fakeAudio struct {
	durations  map[string]time.Duration
	probeErr   error
	extractErr error
	concatErr  error

	extracted []string
	concats   [][]string
}

func (f *fakeAudio) ProbeDuration(_ context.Context, path string) (time.Duration, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.durations[path], nil
}

func (f *fakeAudio) ExtractSlice(_ context.Context, _, dst string, _ int, _, _ time.Duration) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	f.extracted = append(f.extracted, dst)
	return os.WriteFile(dst, []byte("pcm"), 0o644)
}

func (f *fakeAudio) Concatenate(_ context.Context, inputs []string, dst string) error {
	if f.concatErr != nil {
		return f.concatErr
	}
	f.concats = append(f.concats, append([]string(nil), inputs...))
	return os.WriteFile(dst, []byte("pcm"), 0o644)
}

func testInput(t *testing.T, audio *fakeAudio) Input {
	t.Helper()
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.wav")
	b := filepath.Join(tmp, "b.wav")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("pcm"), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	if audio.durations == nil {
		audio.durations = map[string]time.Duration{
			a: time.Second,
			b: time.Second,
		}
	}
	return Input{
		Inputs:    []string{a, b},
		Output:    filepath.Join(tmp, "out.wav"),
		Pattern:   []int{1, 1},
		SliceLen:  250 * time.Millisecond,
		Rate:      44100,
		Workspace: workspace.New(filepath.Join(tmp, "work")),
	}
}

func TestRun_SlicesWeavesAndRenders(t *testing.T) {
	t.Parallel()

	audio := &fakeAudio{}
	in := testInput(t, audio)

	res, err := New(Deps{Audio: audio}).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Two 1s inputs at 250ms slices: 4 slices each, 8 total, all kept.
	if len(audio.extracted) != 8 {
		t.Fatalf("expected 8 extractions, got %d", len(audio.extracted))
	}
	if !strings.HasSuffix(audio.extracted[0], "export-00000_0.wav") {
		t.Fatalf("unexpected first staged path: %s", audio.extracted[0])
	}
	if len(res.Plan) != 8 {
		t.Fatalf("expected plan of 8, got %d", len(res.Plan))
	}
	if len(audio.concats) != 1 {
		t.Fatalf("expected a single direct concat, got %d", len(audio.concats))
	}
	if len(audio.concats[0]) != 8 {
		t.Fatalf("expected concat of 8 slices, got %d", len(audio.concats[0]))
	}
	if len(res.Sources) != 2 || res.Sources[1].Index != 1 {
		t.Fatalf("unexpected sources: %+v", res.Sources)
	}
	if _, err := os.Stat(in.Output); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	// Final reset leaves an empty workspace behind.
	entries, err := os.ReadDir(in.Workspace.Root())
	if err != nil {
		t.Fatalf("read workspace: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty workspace after run, found %d entries", len(entries))
	}
}

func TestRun_StageExitCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		audio *fakeAudio
		want  int
	}{
		{name: "probe failure", audio: &fakeAudio{probeErr: errors.New("soxi: boom")}, want: types.ExitProbe},
		{name: "extract failure", audio: &fakeAudio{extractErr: errors.New("sox: boom")}, want: types.ExitExtract},
		{name: "render failure", audio: &fakeAudio{concatErr: errors.New("sox: boom")}, want: types.ExitRender},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := testInput(t, tc.audio)
			_, err := New(Deps{Audio: tc.audio}).Run(context.Background(), in)
			if err == nil {
				t.Fatalf("expected error")
			}
			var ee *types.ExitError
			if !errors.As(err, &ee) {
				t.Fatalf("expected ExitError, got %T: %v", err, err)
			}
			if ee.Code != tc.want {
				t.Fatalf("exit code %d, want %d", ee.Code, tc.want)
			}
		})
	}
}

func TestRun_CleansWorkspaceAfterMidRunFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		audio *fakeAudio
		want  int
	}{
		{name: "extract failure", audio: &fakeAudio{extractErr: errors.New("sox: boom")}, want: types.ExitExtract},
		{name: "render failure", audio: &fakeAudio{concatErr: errors.New("sox: boom")}, want: types.ExitRender},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := testInput(t, tc.audio)
			_, err := New(Deps{Audio: tc.audio}).Run(context.Background(), in)
			var ee *types.ExitError
			if !errors.As(err, &ee) {
				t.Fatalf("expected ExitError, got %T: %v", err, err)
			}
			if ee.Code != tc.want {
				t.Fatalf("exit code %d, want %d", ee.Code, tc.want)
			}

			// The aborted run still tidies the staging area.
			entries, err := os.ReadDir(in.Workspace.Root())
			if err != nil {
				t.Fatalf("read workspace: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("workspace not cleaned after failure: %d entries left", len(entries))
			}
		})
	}
}

func TestRun_RealtimeStandardDropsOnDisk(t *testing.T) {
	t.Parallel()

	audio := &fakeAudio{}
	in := testInput(t, audio)
	in.Realtime = true

	res, err := New(Deps{Audio: audio}).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Pattern length 2 over 8 slices: keep 2, drop 2, repeated.
	if len(res.Plan) != 4 {
		t.Fatalf("expected 4 kept slices, got %d", len(res.Plan))
	}
}
