// Package saver writes payloads into a shared directory under collision-free,
// pattern-derived filenames. Free counters are discovered with a best-effort
// directory scan, but correctness under concurrent writers rests solely on the
// exclusive-create retry loop: the filesystem's create-if-absent primitive is
// the only synchronization point, which keeps the scheme correct across
// independent processes sharing one filesystem, not just goroutines.
package saver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bettersave/pkg/naming"
)

const (
	// DefaultScanLimit bounds how far the discovery scan advances past the
	// configured counter start.
	DefaultScanLimit = 10000
	// DefaultCreateRetries bounds how many exclusive-create attempts are made
	// after losing races to concurrent writers.
	DefaultCreateRetries = 100
)

// ErrAllocationExhausted matches any AllocationExhaustedError via errors.Is.
var ErrAllocationExhausted = errors.New("no free counter found")

// AllocationExhaustedError is returned when no unoccupied counter was found
// within the configured bounds. It signals sustained contention or a
// pathological pattern; callers may retry with a higher counter start.
type AllocationExhaustedError struct {
	Base     string
	Attempts int
}

func (e *AllocationExhaustedError) Error() string {
	return fmt.Sprintf("no free counter for base %q after %d attempts", e.Base, e.Attempts)
}

// Is reports whether target is ErrAllocationExhausted.
func (e *AllocationExhaustedError) Is(target error) bool {
	return target == ErrAllocationExhausted
}

// Options configures a Saver. Zero values select the defaults.
type Options struct {
	// ScanLimit bounds the discovery-phase counter advance.
	ScanLimit int
	// CreateRetries bounds the exclusive-create retry loop.
	CreateRetries int
}

// Saver allocates counters and writes payloads. It holds no mutable state and
// is safe for concurrent use.
type Saver struct {
	scanLimit     int
	createRetries int
}

// New creates a Saver with the given options.
func New(opts Options) *Saver {
	s := &Saver{
		scanLimit:     opts.ScanLimit,
		createRetries: opts.CreateRetries,
	}

	if s.scanLimit <= 0 {
		s.scanLimit = DefaultScanLimit
	}
	if s.createRetries <= 0 {
		s.createRetries = DefaultCreateRetries
	}

	return s
}

// Save writes payload into dir under a filename derived from cfg and returns
// the realized path.
//
// With overwrite set, the name is formatted at cfg.CounterStart and written
// unconditionally; the last writer wins and no counter allocation happens.
//
// Without overwrite, Save scans dir for counters already in use, picks the
// first free value at or after cfg.CounterStart, and creates the file with an
// exclusive create. A creation that fails because the file appeared in the
// meantime advances the counter and retries; any other failure propagates
// immediately. Patterns without a {counter} token yield a single possible
// name, so a second non-overwrite save of such a config fails once the name
// is taken.
func (s *Saver) Save(dir string, cfg naming.Config, payload []byte, overwrite bool) (string, error) {
	if overwrite {
		path := filepath.Join(dir, cfg.Format(cfg.CounterStart))
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}

		return path, nil
	}

	counter, err := s.nextFreeCounter(dir, cfg)
	if err != nil {
		return "", err
	}

	return s.createExclusive(dir, cfg, payload, counter)
}

// NextPath returns the path and counter value the next non-overwrite Save
// would attempt first, without creating anything. The answer is a snapshot:
// a concurrent writer may take the counter before it is used.
func (s *Saver) NextPath(dir string, cfg naming.Config) (string, int, error) {
	counter, err := s.nextFreeCounter(dir, cfg)
	if err != nil {
		return "", 0, err
	}

	return filepath.Join(dir, cfg.Format(counter)), counter, nil
}

// nextFreeCounter runs the discovery scan and candidate selection.
func (s *Saver) nextFreeCounter(dir string, cfg naming.Config) (int, error) {
	taken, err := scanCounters(dir, cfg)
	if err != nil {
		return 0, err
	}

	counter := cfg.CounterStart
	for steps := 0; ; steps++ {
		if steps >= s.scanLimit {
			return 0, &AllocationExhaustedError{Base: cfg.Base, Attempts: steps}
		}

		if _, occupied := taken[counter]; !occupied {
			return counter, nil
		}

		counter++
	}
}

// createExclusive attempts atomic create-and-write, advancing the counter on
// each detected collision. Collisions here are genuine races the discovery
// snapshot could not see.
func (s *Saver) createExclusive(dir string, cfg naming.Config, payload []byte, counter int) (string, error) {
	for attempt := 0; attempt < s.createRetries; attempt++ {
		path := filepath.Join(dir, cfg.Format(counter))

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				counter++
				continue
			}

			return "", fmt.Errorf("create %s: %w", path, err)
		}

		if err := writeAndClose(file, payload); err != nil {
			// Never leave a partial file behind a failed save.
			_ = os.Remove(path)
			return "", fmt.Errorf("write %s: %w", path, err)
		}

		return path, nil
	}

	return "", &AllocationExhaustedError{Base: cfg.Base, Attempts: s.createRetries}
}

// writeAndClose writes the full payload and releases the handle on both the
// success and failure paths.
func writeAndClose(file *os.File, payload []byte) error {
	if _, err := file.Write(payload); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}
