// Package weave reorders the staged slice inventory into the final render
// sequence. It owns the three sequencing strategies and the realtime dropout
// cadence; file bytes never pass through here, only names.
package weave

import (
	"errors"
	"fmt"
	"math/rand"
)

// Strategy selects how the flattened inventory is reordered. The three
// strategies are mutually exclusive and chosen once per run.
type Strategy int

const (
	Standard Strategy = iota
	WeightedGrouped
	Random
)

func (s Strategy) String() string {
	switch s {
	case Standard:
		return "standard"
	case WeightedGrouped:
		return "weighted-grouped"
	case Random:
		return "random"
	}
	return "unknown"
}

// ChooseStrategy picks the run's strategy. Random overrides everything;
// otherwise any non-1 pattern weight selects weighted-grouped mode.
func ChooseStrategy(pattern []int, random bool) Strategy {
	if random {
		return Random
	}
	for _, w := range pattern {
		if w != 1 {
			return WeightedGrouped
		}
	}
	return Standard
}

// Inventory is the staged-slice store the weaver consumes. Keep transfers a
// slice into the contiguous render sequence; Drop unlinks it.
type Inventory interface {
	ListStaged() ([]string, error)
	Keep(name string, renderIndex int) (string, error)
	Drop(name string) error
}

type Options struct {
	Realtime bool
	Random   bool
	Rand     *rand.Rand
	Logf     func(format string, args ...any)
}

// Plan is the ordered list of kept render names.
type Plan []string

// RenameError marks a failure to move a kept slice into the render sequence.
// Callers treat it differently from other weave failures.
type RenameError struct {
	Err error
}

func (e *RenameError) Error() string { return "weave rename: " + e.Err.Error() }
func (e *RenameError) Unwrap() error { return e.Err }

// Weave reads the full staged inventory and produces the render plan,
// renaming survivors and deleting dropped slices as it goes. Drop failures
// are logged and swallowed; rename failures abort.
func Weave(inv Inventory, pattern []int, opts Options) (Plan, error) {
	if len(pattern) == 0 {
		return nil, errors.New("weave: empty pattern")
	}
	for _, w := range pattern {
		if w <= 0 {
			return nil, fmt.Errorf("weave: pattern weight %d must be positive", w)
		}
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	names, err := inv.ListStaged()
	if err != nil {
		return nil, err
	}

	switch ChooseStrategy(pattern, opts.Random) {
	case Random:
		return weaveRandom(inv, names, pattern, opts, logf)
	case WeightedGrouped:
		return weaveGrouped(inv, names, pattern, opts.Realtime, logf)
	default:
		return weaveStandard(inv, names, pattern, opts.Realtime, logf)
	}
}

// dropClock implements the realtime dropout cadence: a countdown seeded one
// longer than its reset period toggles the skip flag each time it reaches
// zero, and the toggling element itself takes the new state. The first keep
// period is therefore one element longer than every following period.
type dropClock struct {
	enabled   bool
	skip      bool
	countdown int
	reset     int
}

func newDropClock(enabled bool, seed, reset int) *dropClock {
	return &dropClock{enabled: enabled, countdown: seed, reset: reset}
}

// consume registers one consumed element and reports whether to drop it.
func (c *dropClock) consume() bool {
	if !c.enabled {
		return false
	}
	c.countdown--
	if c.countdown == 0 {
		c.skip = !c.skip
		c.countdown = c.reset
	}
	return c.skip
}

func weaveStandard(inv Inventory, names []string, pattern []int, realtime bool, logf func(string, ...any)) (Plan, error) {
	clock := newDropClock(realtime, len(pattern)+1, len(pattern))
	plan := make(Plan, 0, len(names))
	for _, name := range names {
		if clock.consume() {
			if err := inv.Drop(name); err != nil {
				logf("weave: %v", err)
			}
			continue
		}
		kept, err := inv.Keep(name, len(plan))
		if err != nil {
			return nil, &RenameError{Err: err}
		}
		plan = append(plan, kept)
	}
	return plan, nil
}

func weaveGrouped(inv Inventory, names []string, pattern []int, realtime bool, logf func(string, ...any)) (Plan, error) {
	// Round-robin partition of the sorted listing, by position, not by
	// source identity.
	groups := make([][]string, len(pattern))
	for i, name := range names {
		g := i % len(pattern)
		groups[g] = append(groups[g], name)
	}

	// Expand the pattern into one cycle of group indexes, each group
	// appearing as many times as its weight.
	var cycle []int
	for g, weight := range pattern {
		for j := 0; j < weight; j++ {
			cycle = append(cycle, g)
		}
	}

	loops := (len(names) + len(cycle) - 1) / len(cycle)
	clock := newDropClock(realtime, len(cycle)+1, len(pattern))
	heads := make([]int, len(groups))
	plan := make(Plan, 0, len(names))
	for loop := 0; loop < loops; loop++ {
		for _, g := range cycle {
			if heads[g] >= len(groups[g]) {
				// Exhausted groups contribute nothing for this
				// cycle position.
				continue
			}
			name := groups[g][heads[g]]
			heads[g]++
			if clock.consume() {
				if err := inv.Drop(name); err != nil {
					logf("weave: %v", err)
				}
				continue
			}
			kept, err := inv.Keep(name, len(plan))
			if err != nil {
				return nil, &RenameError{Err: err}
			}
			plan = append(plan, kept)
		}
	}
	return plan, nil
}

func weaveRandom(inv Inventory, names []string, pattern []int, opts Options, logf func(string, ...any)) (Plan, error) {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	shuffled := make([]string, len(names))
	copy(shuffled, names)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	keepN := len(shuffled)
	if opts.Realtime {
		keepN = len(shuffled) / len(pattern)
	}

	plan := make(Plan, 0, keepN)
	for i, name := range shuffled {
		if i >= keepN {
			if err := inv.Drop(name); err != nil {
				logf("weave: %v", err)
			}
			continue
		}
		kept, err := inv.Keep(name, len(plan))
		if err != nil {
			return nil, &RenameError{Err: err}
		}
		plan = append(plan, kept)
	}
	return plan, nil
}
