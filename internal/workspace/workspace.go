package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	stagedPrefix = "export-"
	renderPrefix = "render_"
	partPrefix   = "render_part_"
	sliceExt     = ".wav"
)

// Workspace is the flat staging directory holding every intermediate slice
// and render artifact for one run.
type Workspace struct {
	root string
}

func New(root string) *Workspace {
	return &Workspace{root: root}
}

func (w *Workspace) Root() string { return w.root }

// Reset tears the staging directory down and recreates it. Removal failures
// are logged and swallowed; a dirty temp directory must never abort a run.
// Creation failure is returned and treated as fatal by the caller.
func (w *Workspace) Reset(logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if _, err := os.Stat(w.root); err == nil {
		if err := os.RemoveAll(w.root); err != nil {
			logf("workspace: remove %s: %v", w.root, err)
		}
	}
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create workspace %s: %w", w.root, err)
	}
	return nil
}

// StagedName encodes (sequence index, source index) so slices from different
// sources never collide and a sorted listing recovers per-source order.
func (w *Workspace) StagedName(seq, src int) string {
	return fmt.Sprintf("%s%05d_%d%s", stagedPrefix, seq, src, sliceExt)
}

func (w *Workspace) RenderName(i int) string {
	return fmt.Sprintf("%s%05d%s", renderPrefix, i, sliceExt)
}

func (w *Workspace) PartName(i int) string {
	return fmt.Sprintf("%s%05d%s", partPrefix, i, sliceExt)
}

func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// ListStaged returns the lexicographically sorted staged slice inventory.
// Anything that is not a staged slice file is excluded before sequencing
// sees the listing.
func (w *Workspace) ListStaged() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("list workspace %s: %w", w.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, stagedPrefix) && strings.HasSuffix(name, sliceExt) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Keep renames a staged slice into the contiguous render sequence and
// returns its new name.
func (w *Workspace) Keep(name string, renderIndex int) (string, error) {
	dst := w.RenderName(renderIndex)
	if err := os.Rename(w.Path(name), w.Path(dst)); err != nil {
		return "", fmt.Errorf("rename %s -> %s: %w", name, dst, err)
	}
	return dst, nil
}

// Drop unlinks a staged slice that did not survive sequencing.
func (w *Workspace) Drop(name string) error {
	if err := os.Remove(w.Path(name)); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
