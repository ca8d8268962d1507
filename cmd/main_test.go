package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bettersave/internal/testutil"
	"bettersave/pkg/naming"
)

func resetCommandGlobals(t *testing.T) {
	t.Helper()

	prev := struct {
		verbose                      bool
		pattern, base, extension     string
		counterStart, counterPadding int
		configPath, profileName      string
		overwrite, makeDirs          bool
		journalPath                  string
		continueOnError              bool
	}{
		verbose, pattern, base, extension,
		counterStart, counterPadding,
		configPath, profileName,
		overwrite, makeDirs,
		journalPath,
		continueOnError,
	}

	verbose = false
	pattern = "{base}_{counter}"
	base = ""
	extension = ""
	counterStart = 1
	counterPadding = 0
	configPath = ""
	profileName = ""
	overwrite = false
	makeDirs = false
	journalPath = ""
	continueOnError = false

	t.Cleanup(func() {
		verbose = prev.verbose
		pattern = prev.pattern
		base = prev.base
		extension = prev.extension
		counterStart = prev.counterStart
		counterPadding = prev.counterPadding
		configPath = prev.configPath
		profileName = prev.profileName
		overwrite = prev.overwrite
		makeDirs = prev.makeDirs
		journalPath = prev.journalPath
		continueOnError = prev.continueOnError
	})
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = writer
	defer func() {
		os.Stdout = oldStdout
	}()

	fn()

	require.NoError(t, writer.Close())
	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	return string(out)
}

func feedStdin(t *testing.T, content string) {
	t.Helper()

	oldStdin := os.Stdin
	reader, writer, err := os.Pipe()
	require.NoError(t, err)

	_, err = writer.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = oldStdin
		_ = reader.Close()
	})
}

func TestRunSave_FileInputsDeriveBaseAndExtension(t *testing.T) {
	resetCommandGlobals(t)

	dir := t.TempDir()
	input := filepath.Join(t.TempDir(), "invoice.pdf")
	testutil.CreateFile(t, input, "invoice data")

	output := captureStdout(t, func() {
		require.NoError(t, runSave(nil, []string{dir, input}))
	})

	assert.Contains(t, output, "=== Summary ===")
	assert.Contains(t, output, "Saved:        1")
	assert.Equal(t, []string{"invoice_1.pdf"}, testutil.DirNames(t, dir))
	assert.Equal(t, "invoice data", testutil.ReadFile(t, filepath.Join(dir, "invoice_1.pdf")))
}

func TestRunSave_StdinUsesConfiguredBase(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = "pdf"
	counterPadding = 3

	dir := t.TempDir()
	feedStdin(t, "report data")

	captureStdout(t, func() {
		require.NoError(t, runSave(nil, []string{dir}))
	})

	assert.Equal(t, []string{"report_001.pdf"}, testutil.DirNames(t, dir))
}

func TestRunSave_SecondSaveAdvancesCounter(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = "pdf"
	counterPadding = 3

	dir := t.TempDir()
	testutil.CreateFile(t, filepath.Join(dir, "report_001.pdf"), "existing")

	feedStdin(t, "new data")
	captureStdout(t, func() {
		require.NoError(t, runSave(nil, []string{dir}))
	})

	assert.Equal(t, []string{"report_001.pdf", "report_002.pdf"}, testutil.DirNames(t, dir))
}

func TestRunSave_Overwrite(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = "pdf"
	overwrite = true

	dir := t.TempDir()
	testutil.CreateFile(t, filepath.Join(dir, "report_1.pdf"), "old")

	feedStdin(t, "new")
	captureStdout(t, func() {
		require.NoError(t, runSave(nil, []string{dir}))
	})

	assert.Equal(t, []string{"report_1.pdf"}, testutil.DirNames(t, dir))
	assert.Equal(t, "new", testutil.ReadFile(t, filepath.Join(dir, "report_1.pdf")))
}

func TestRunSave_MkdirsCreatesDestination(t *testing.T) {
	resetCommandGlobals(t)
	base = "log"
	makeDirs = true

	dir := filepath.Join(t.TempDir(), "nested", "out")

	feedStdin(t, "log line")
	captureStdout(t, func() {
		require.NoError(t, runSave(nil, []string{dir}))
	})

	assert.FileExists(t, filepath.Join(dir, "log_1"))
}

func TestRunNext(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = "pdf"
	counterPadding = 3

	dir := t.TempDir()
	testutil.CreateFile(t, filepath.Join(dir, "report_001.pdf"), "existing")

	output := captureStdout(t, func() {
		require.NoError(t, runNext(nil, []string{dir}))
	})

	assert.Contains(t, output, "report_002.pdf")
	assert.Equal(t, []string{"report_001.pdf"}, testutil.DirNames(t, dir), "next must not create files")
}

func TestRunScan(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = "pdf"
	counterPadding = 3

	dir := t.TempDir()
	testutil.CreateFile(t, filepath.Join(dir, "report_001.pdf"), "existing")
	testutil.CreateFile(t, filepath.Join(dir, "report_004.pdf"), "existing")

	output := captureStdout(t, func() {
		require.NoError(t, runScan(nil, []string{dir}))
	})

	assert.Contains(t, output, "1\n")
	assert.Contains(t, output, "4\n")
}

func TestRunScan_EmptyDirectory(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"

	output := captureStdout(t, func() {
		require.NoError(t, runScan(nil, []string{t.TempDir()}))
	})

	assert.Contains(t, output, "No occupied counters.")
}

func TestNamingConfigFromFlags_Profile(t *testing.T) {
	resetCommandGlobals(t)

	configPath = filepath.Join(t.TempDir(), "profiles.yaml")
	testutil.CreateFile(t, configPath, `profiles:
  reports:
    pattern: "{base}_{counter}"
    base: report
    extension: pdf
    counter_start: 1
    counter_padding: 3
`)
	profileName = "reports"

	cfg, err := namingConfigFromFlags()
	require.NoError(t, err)
	assert.Equal(t, naming.Config{
		Pattern:        "{base}_{counter}",
		Base:           "report",
		Extension:      "pdf",
		CounterStart:   1,
		CounterPadding: 3,
	}, cfg)
}

func TestNamingConfigFromFlags_ProfileRequiresConfig(t *testing.T) {
	resetCommandGlobals(t)
	profileName = "reports"

	_, err := namingConfigFromFlags()
	assert.ErrorIs(t, err, errProfileWithoutConfig)
}

func TestNamingConfigFromFlags_StripsLeadingDotFromExtension(t *testing.T) {
	resetCommandGlobals(t)
	base = "report"
	extension = ".pdf"

	cfg, err := namingConfigFromFlags()
	require.NoError(t, err)
	assert.Equal(t, "pdf", cfg.Extension)
}

func TestBuildSaveItems_DerivesPerInput(t *testing.T) {
	resetCommandGlobals(t)

	inputDir := t.TempDir()
	first := filepath.Join(inputDir, "invoice.pdf")
	second := filepath.Join(inputDir, "notes")
	testutil.CreateFile(t, first, "a")
	testutil.CreateFile(t, second, "b")

	cfg, err := namingConfigFromFlags()
	require.NoError(t, err)

	items, err := buildSaveItems(cfg, []string{first, second}, false)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "invoice", items[0].Config.Base)
	assert.Equal(t, "pdf", items[0].Config.Extension)
	assert.Equal(t, "notes", items[1].Config.Base)
	assert.Empty(t, items[1].Config.Extension)
}

func TestBuildSaveItems_MissingInput(t *testing.T) {
	resetCommandGlobals(t)

	cfg, err := namingConfigFromFlags()
	require.NoError(t, err)

	_, err = buildSaveItems(cfg, []string{filepath.Join(t.TempDir(), "missing.txt")}, false)
	assert.Error(t, err)
}
