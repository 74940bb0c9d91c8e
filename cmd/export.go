package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/user/video-trimmer-cli/db"
	"github.com/user/video-trimmer-cli/deps"
	"github.com/user/video-trimmer-cli/pkg/export"
	"github.com/user/video-trimmer-cli/pkg/media"
	"github.com/user/video-trimmer-cli/pkg/timeutil"
	"github.com/user/video-trimmer-cli/trimmer"
)

var exportCmd = &cobra.Command{
	Use:   "export <video-file>",
	Short: "Export a window of a video without the UI",
	Long: `Trim the window between --start and --end out of a video and encode it
as an H.265 clip. Times can be in HH:MM:SS, MM:SS or seconds format.
--selection takes the label shown under the timeline instead, e.g.
"00:05 sec - 00:15 sec".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		w, err := windowFromFlags(cmd)
		if err != nil {
			return err
		}

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return fmt.Errorf("video file not found: %s", absPath)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cfg.NewLogger(os.Stderr)
		ctx := cmd.Context()

		if err := deps.CheckFfprobe(); err != nil {
			return err
		}
		meta, err := media.Probe(ctx, absPath)
		if err != nil {
			return fmt.Errorf("failed to read video: %w", err)
		}
		if err := trimmer.ValidateWindow(w, meta.DurationMs); err != nil {
			return err
		}
		limits := trimmer.Limits{MinMs: cfg.MinDurationMs(), MaxMs: cfg.MaxDurationMs()}
		if err := limits.Check(w, meta.DurationMs); err != nil {
			return err
		}

		if output == "" {
			output = filepath.Join(cfg.DestinationDir, uuid.New().String()+".mp4")
		}
		req := trimmer.TrimRequest{Source: absPath, StartMs: w.StartMs, EndMs: w.EndMs, Destination: output}

		publisher, err := newPublisher(ctx, cfg, logger)
		if err != nil {
			return err
		}

		database, err := db.Open()
		if err != nil {
			logger.Warn("history disabled", slog.Any("error", err))
		} else {
			defer database.Close()
		}
		exportID := recordStart(database, logger, absPath, meta, req)

		fmt.Printf("Exporting %s from %s\n", timeutil.FormatSelection(w.StartMs, w.EndMs), filepath.Base(absPath))
		uri, err := export.NewTranscoder(cfg.BitrateMbps, logger).Trim(ctx, req)
		if err == nil && publisher != nil {
			uri, err = publisher.Publish(ctx, uri)
		}
		if err != nil {
			recordEnd(database, logger, exportID, err, "")
			return fmt.Errorf("export failed: %w", err)
		}

		published := ""
		if uri != req.Destination {
			published = uri
		}
		recordEnd(database, logger, exportID, nil, published)
		fmt.Printf("Clip saved: %s\n", uri)
		return nil
	},
}

// windowFromFlags reads the window from --selection, or from --start and
// --end. Malformed input fails before anything is probed.
func windowFromFlags(cmd *cobra.Command) (trimmer.Window, error) {
	if cmd.Flags().Changed("selection") {
		label, _ := cmd.Flags().GetString("selection")
		startMs, endMs, err := timeutil.ParseSelection(label)
		if err != nil {
			return trimmer.Window{}, fmt.Errorf("invalid selection: %w", err)
		}
		return trimmer.Window{StartMs: startMs, EndMs: endMs}, nil
	}

	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	startMs, err := timeutil.ParseMillis(startStr)
	if err != nil {
		return trimmer.Window{}, fmt.Errorf("invalid start time: %w", err)
	}
	endMs, err := timeutil.ParseMillis(endStr)
	if err != nil {
		return trimmer.Window{}, fmt.Errorf("invalid end time: %w", err)
	}
	return trimmer.Window{StartMs: startMs, EndMs: endMs}, nil
}

// addWindowFlags registers the flags windowFromFlags reads: either
// --selection, or --start with --end.
func addWindowFlags(c *cobra.Command) {
	c.Flags().StringP("start", "s", "", "Start of the window")
	c.Flags().StringP("end", "e", "", "End of the window")
	c.Flags().String("selection", "", `Window as a timeline label, e.g. "00:05 sec - 00:15 sec"`)
	c.MarkFlagsRequiredTogether("start", "end")
	c.MarkFlagsMutuallyExclusive("selection", "start")
	c.MarkFlagsMutuallyExclusive("selection", "end")
	c.MarkFlagsOneRequired("selection", "start")
}

// recordStart adds the export to the history. It returns 0 when there is no
// history to write to.
func recordStart(database *sql.DB, logger *slog.Logger, path string, meta trimmer.Metadata, req trimmer.TrimRequest) int64 {
	if database == nil {
		return 0
	}
	videoID, err := db.EnsureVideo(database, path, meta)
	if err != nil {
		logger.Warn("record video", slog.Any("error", err))
		return 0
	}
	id, err := db.StartExport(database, videoID, trimmer.Window{StartMs: req.StartMs, EndMs: req.EndMs}, req.Destination, time.Now())
	if err != nil {
		logger.Warn("record export", slog.Any("error", err))
		return 0
	}
	return id
}

func recordEnd(database *sql.DB, logger *slog.Logger, exportID int64, exportErr error, publishedURI string) {
	if database == nil || exportID == 0 {
		return
	}
	var err error
	if exportErr != nil {
		err = db.MarkExportError(database, exportID, time.Now(), exportErr.Error())
	} else {
		err = db.MarkExportComplete(database, exportID, time.Now(), publishedURI)
	}
	if err != nil {
		logger.Warn("record export result", slog.Any("error", err))
	}
}

func init() {
	addWindowFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: a new file in the destination directory)")

	rootCmd.AddCommand(exportCmd)
}
