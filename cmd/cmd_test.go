package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/video-trimmer-cli/db"
	"github.com/user/video-trimmer-cli/pkg/timeutil"
	"github.com/user/video-trimmer-cli/trimmer"
)

func TestPrintHistory(t *testing.T) {
	exports := []db.Export{
		{ID: 2, VideoPath: "/videos/match.mp4", StartMs: 5000, EndMs: 65000, Status: db.StatusCompleted, Destination: "/out/b.mp4", PublishedURI: "s3://clips/b.mp4"},
		{ID: 1, VideoPath: "/videos/match.mp4", StartMs: 0, EndMs: 1000, Status: db.StatusError, Destination: "/out/a.mp4"},
	}
	var buf bytes.Buffer
	printHistory(&buf, exports)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "match.mp4")
	assert.Contains(t, lines[2], "00:05 sec - 01:05 sec")
	assert.Contains(t, lines[2], "s3://clips/b.mp4")
	assert.Contains(t, lines[3], "error")
	assert.Contains(t, lines[3], "/out/a.mp4")
}

func TestPrintExport(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printExport(&buf, db.Export{
		ID: 7, VideoPath: "/videos/match.mp4", StartMs: 0, EndMs: 4000,
		Status: db.StatusError, Destination: "/out/c.mp4", StartedAt: &at, ErrorAt: &at,
		Log: "Unknown encoder 'libx265'",
	})

	out := buf.String()
	assert.Contains(t, out, "/videos/match.mp4")
	assert.Contains(t, out, "Started:")
	assert.Contains(t, out, "Failed:")
	assert.NotContains(t, out, "Finished:")
	assert.True(t, strings.HasSuffix(out, "Unknown encoder 'libx265'\n"))
}

func TestParseExportID(t *testing.T) {
	id, err := parseExportID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "x", "0", "-3"} {
		_, err := parseExportID(bad)
		assert.Error(t, err, bad)
	}
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"trim", "export", "history", "credentials", "doctor", "version"} {
		assert.True(t, names[want], want)
	}

	f := exportCmd.Flags().Lookup("start")
	require.NotNil(t, f)
	assert.Equal(t, "s", f.Shorthand)
	assert.NotNil(t, exportCmd.Flags().Lookup("selection"))
}

// newExportFlags returns a command with the window flags parsed from args.
func newExportFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "export"}
	addWindowFlags(c)
	require.NoError(t, c.Flags().Parse(args))
	require.NoError(t, c.ValidateFlagGroups())
	return c
}

func TestWindowFromFlags(t *testing.T) {
	w, err := windowFromFlags(newExportFlags(t, "--selection", "00:05 sec - 00:15 sec"))
	require.NoError(t, err)
	assert.Equal(t, trimmer.Window{StartMs: 5000, EndMs: 15000}, w)

	w, err = windowFromFlags(newExportFlags(t, "--start", "1:00", "--end", "90"))
	require.NoError(t, err)
	assert.Equal(t, trimmer.Window{StartMs: 60000, EndMs: 90000}, w)
}

func TestWindowFromFlags_FailsFast(t *testing.T) {
	_, err := windowFromFlags(newExportFlags(t, "--selection", "00:05 sec"))
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)
	assert.Contains(t, err.Error(), "invalid selection")

	_, err = windowFromFlags(newExportFlags(t, "--start", "abc", "--end", "10"))
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)
	assert.Contains(t, err.Error(), "invalid start time")
}

func TestWindowFlags_Groups(t *testing.T) {
	c := &cobra.Command{Use: "export"}
	addWindowFlags(c)
	require.NoError(t, c.Flags().Parse([]string{"--selection", "00:05 sec - 00:15 sec", "--start", "5"}))
	assert.Error(t, c.ValidateFlagGroups())

	c = &cobra.Command{Use: "export"}
	addWindowFlags(c)
	require.NoError(t, c.Flags().Parse([]string{"--start", "5"}))
	assert.Error(t, c.ValidateFlagGroups(), "--end is required with --start")

	c = &cobra.Command{Use: "export"}
	addWindowFlags(c)
	require.NoError(t, c.Flags().Parse(nil))
	assert.Error(t, c.ValidateFlagGroups(), "one of the window flags is required")
}
