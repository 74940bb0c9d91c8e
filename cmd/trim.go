package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/user/video-trimmer-cli/config"
	"github.com/user/video-trimmer-cli/db"
	"github.com/user/video-trimmer-cli/mpv"
	"github.com/user/video-trimmer-cli/pkg/export"
	"github.com/user/video-trimmer-cli/pkg/media"
	"github.com/user/video-trimmer-cli/pkg/publish"
	"github.com/user/video-trimmer-cli/trimmer"
	"github.com/user/video-trimmer-cli/tui"
)

// connectTimeout bounds the wait for mpv's IPC socket to appear.
const connectTimeout = 5 * time.Second

var errNotTerminal = errors.New("trim needs an interactive terminal; use 'export' for scripted trims")

var trimCmd = &cobra.Command{
	Use:   "trim <video-file>",
	Short: "Open a video and pick the window to export",
	Long: `Open a video file in mpv and show the trimming timeline in the terminal.
Drag the thumbs to select a window, press space to play it and s to export it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
			return errNotTerminal
		}

		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, logFile, err := cfg.OpenLogger()
		if err != nil {
			return err
		}
		defer logFile.Close()
		logger.Info("starting trimmer", slog.String("config", cfg.String()), slog.String("video", absPath))

		publisher, err := newPublisher(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		database, err := db.Open()
		if err != nil {
			// history is optional; trimming still works without it
			logger.Warn("history disabled", slog.Any("error", err))
			database = nil
		} else {
			defer database.Close()
		}

		process, err := mpv.Launch(cfg.MpvSocket)
		if err != nil {
			return fmt.Errorf("failed to launch mpv: %w", err)
		}
		defer func() {
			if process.Process != nil {
				_ = process.Process.Kill()
				_ = process.Wait()
			}
		}()

		client := mpv.NewClient(cfg.MpvSocket)
		ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
		err = client.ConnectWait(ctx, 100*time.Millisecond)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to mpv: %w", err)
		}
		defer client.Close()
		defer func() { _ = client.Quit() }()

		player := mpv.NewPlayer(client)
		return tui.Run(tui.Options{
			Config:     cfg,
			Logger:     logger,
			DB:         database,
			Player:     player,
			Metadata:   player,
			Extractor:  media.NewFrameExtractor(logger),
			Transcoder: export.NewTranscoder(cfg.BitrateMbps, logger),
			Publisher:  publisher,
			Source:     absPath,
		})
	},
}

// newPublisher returns the S3 publisher when a bucket is configured, or nil.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (trimmer.Publisher, error) {
	if !cfg.S3Enabled() {
		return nil, nil
	}
	p, err := publish.NewS3Publisher(ctx, publish.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		Prefix:          cfg.S3Prefix,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up S3: %w", err)
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(trimCmd)
}
