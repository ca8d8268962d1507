package profiles_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bettersave/internal/testutil"
	"bettersave/pkg/naming"
	"bettersave/pkg/profiles"
)

const fixture = `profiles:
  reports:
    pattern: "{base}_{counter}"
    base: report
    extension: pdf
    counter_start: 1
    counter_padding: 3
  scratch:
    base: scratch
  broken:
    pattern: "{counter}"
    counter_start: -1
`

func loadFixture(t *testing.T) *profiles.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	testutil.CreateFile(t, path, fixture)

	file, err := profiles.Load(path)
	require.NoError(t, err)

	return file
}

func TestResolve(t *testing.T) {
	t.Parallel()

	file := loadFixture(t)

	cfg, err := file.Resolve("reports")
	require.NoError(t, err)
	assert.Equal(t, naming.Config{
		Pattern:        "{base}_{counter}",
		Base:           "report",
		Extension:      "pdf",
		CounterStart:   1,
		CounterPadding: 3,
	}, cfg)
}

func TestResolve_DefaultPattern(t *testing.T) {
	t.Parallel()

	cfg, err := loadFixture(t).Resolve("scratch")
	require.NoError(t, err)
	assert.Equal(t, profiles.DefaultPattern, cfg.Pattern)
	assert.Equal(t, "scratch", cfg.Base)
}

func TestResolve_UnknownProfile(t *testing.T) {
	t.Parallel()

	_, err := loadFixture(t).Resolve("nope")
	assert.ErrorIs(t, err, profiles.ErrUnknownProfile)
}

func TestResolve_InvalidProfile(t *testing.T) {
	t.Parallel()

	_, err := loadFixture(t).Resolve("broken")
	assert.ErrorIs(t, err, naming.ErrNegativeCounter)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := profiles.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	testutil.CreateFile(t, path, "profiles: [not a map")

	_, err := profiles.Load(path)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := loadFixture(t).Names()
	assert.ElementsMatch(t, []string{"reports", "scratch", "broken"}, names)
}
