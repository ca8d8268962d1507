// Package naming composes filenames from a token pattern and a counter.
// It converts a pattern such as "{base}_{counter}" into concrete, sanitized
// filenames, and can derive a matching regexp to recognize names it produced.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// BaseToken is the pattern placeholder replaced by the base name.
	BaseToken = "{base}"
	// CounterToken is the pattern placeholder replaced by the padded counter.
	CounterToken = "{counter}"
)

// counterSentinel stands in for the counter while building the matching
// regexp. It survives sanitization and whitespace trimming untouched, so the
// composed name can be regexp-quoted as a whole and the sentinel swapped for
// a digit-capturing group afterwards.
const counterSentinel = "\x00"

// unsafeCharsRegex matches characters that are unsafe in filenames across
// common filesystems.
var unsafeCharsRegex = regexp.MustCompile(`[/\\?%*:|"<>]`)

var (
	// ErrEmptyPattern indicates a config without a filename pattern.
	ErrEmptyPattern = errors.New("pattern must not be empty")
	// ErrNegativeCounter indicates a negative counter start value.
	ErrNegativeCounter = errors.New("counter start must not be negative")
	// ErrNegativePadding indicates a negative counter padding value.
	ErrNegativePadding = errors.New("counter padding must not be negative")
	// ErrDottedExtension indicates an extension given with a leading dot.
	ErrDottedExtension = errors.New("extension must not start with a dot")
	// ErrUnsafeExtension indicates an extension containing a path separator.
	ErrUnsafeExtension = errors.New("extension must not contain path separators")
)

// Config describes how filenames are composed for one save target.
type Config struct {
	Pattern        string // token pattern, e.g. "{base}_{counter}"
	Base           string // value substituted for {base}
	Extension      string // appended as "." + Extension when non-empty; no leading dot
	CounterStart   int    // first counter value tried
	CounterPadding int    // zero-pad width for the counter; <= 0 means no padding
}

// Validate checks the config for values Format does not defend against.
// Callers are expected to validate once before formatting.
func (c Config) Validate() error {
	if c.Pattern == "" {
		return ErrEmptyPattern
	}
	if c.CounterStart < 0 {
		return ErrNegativeCounter
	}
	if c.CounterPadding < 0 {
		return ErrNegativePadding
	}
	if strings.HasPrefix(c.Extension, ".") {
		return ErrDottedExtension
	}
	// The extension is appended after sanitization, so separators here would
	// let a composed name point outside its directory.
	if strings.ContainsAny(c.Extension, `/\`) {
		return ErrUnsafeExtension
	}

	return nil
}

// Format composes the filename for the given counter value.
//
// Only the first occurrence of {base} and the first occurrence of {counter}
// are substituted; further occurrences are left as literals. The composed
// name (pattern literals included) is sanitized before the extension is
// appended, so unsafe characters in either the base or the pattern itself
// become hyphens.
func (c Config) Format(counter int) string {
	return c.compose(FormatCounter(counter, c.CounterPadding))
}

// FormatCounter renders a counter value with left zero-padding to the given
// width. A width of zero or less yields the plain decimal representation.
func FormatCounter(counter, padding int) string {
	if padding <= 0 {
		return strconv.Itoa(counter)
	}

	return fmt.Sprintf("%0*d", padding, counter)
}

// CounterRegexp returns an anchored regexp that matches exactly the names
// Format can produce for this config, capturing the counter digits in group
// one. When the pattern has no {counter} token the regexp has no capture
// group and matches the single composable name.
func (c Config) CounterRegexp() *regexp.Regexp {
	quoted := regexp.QuoteMeta(c.compose(counterSentinel))
	expr := "^" + strings.Replace(quoted, counterSentinel, `(\d+)`, 1) + "$"

	return regexp.MustCompile(expr)
}

// compose substitutes tokens, sanitizes the result, and appends the extension.
func (c Config) compose(counterValue string) string {
	name := strings.Replace(c.Pattern, BaseToken, c.Base, 1)
	name = strings.Replace(name, CounterToken, counterValue, 1)

	name = SanitizeName(name)

	if c.Extension != "" {
		name += "." + c.Extension
	}

	return name
}

// SanitizeName replaces filesystem-unsafe characters with hyphens and trims
// leading and trailing whitespace.
func SanitizeName(name string) string {
	name = unsafeCharsRegex.ReplaceAllString(name, "-")

	return strings.TrimSpace(name)
}
