package saver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	"bettersave/pkg/naming"
)

// scanCounters lists dir once and collects every counter value already
// occupied by a file matching cfg. The result is a snapshot with no lock
// behind it; staleness is tolerated and compensated by the create retry
// loop, not by the snapshot's accuracy.
//
// A missing directory yields an empty set rather than an error. Entries that
// do not match the pattern, or whose captured counter does not parse, are
// ignored.
func scanCounters(dir string, cfg naming.Config) (map[int]struct{}, error) {
	taken := make(map[int]struct{})

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return taken, nil
		}

		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}

	pattern := cfg.CounterRegexp()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		match := pattern.FindStringSubmatch(entry.Name())
		if len(match) < 2 {
			continue
		}

		counter, err := strconv.Atoi(match[1])
		if err != nil || counter < 0 {
			continue
		}

		taken[counter] = struct{}{}
	}

	return taken, nil
}

// ExistingCounters returns the occupied counter values for cfg in dir,
// sorted ascending. A missing directory yields an empty slice.
func (s *Saver) ExistingCounters(dir string, cfg naming.Config) ([]int, error) {
	taken, err := scanCounters(dir, cfg)
	if err != nil {
		return nil, err
	}

	counters := make([]int, 0, len(taken))
	for counter := range taken {
		counters = append(counters, counter)
	}

	sort.Ints(counters)

	return counters, nil
}
