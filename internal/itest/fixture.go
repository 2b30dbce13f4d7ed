//go:build integration

package itest

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeSineWAV generates a mono 16-bit sine tone fixture. Keeping fixture
// generation in-process avoids depending on anything beyond sox itself.
func writeSineWAV(t *testing.T, path string, freqHz float64, seconds float64, rate int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	n := int(seconds * float64(rate))
	data := make([]int, n)
	for i := 0; i < n; i++ {
		s := math.Sin(2 * math.Pi * freqHz * float64(i) / float64(rate))
		data[i] = int(s * 0.5 * math.MaxInt16)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
}

func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate go.mod")
}
