package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/video-trimmer-cli/config"
	"github.com/user/video-trimmer-cli/deps"
)

var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "video-trimmer-cli",
	Short: "Trim videos from the terminal",
	Long: `video-trimmer-cli plays a video in mpv and lets you pick a window of it
on a thumbnail timeline in the terminal, then exports that window as an
H.265 clip.

Features:
  - Drag the start and end thumbs over a strip of video frames
  - Scrub and play inside the selected window
  - Export headless with --start and --end
  - Optional upload of finished clips to S3
  - Export history stored in SQLite`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("video-trimmer-cli version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that all required system dependencies (mpv, ffmpeg, ffprobe) are installed and available.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		allGood := true
		for _, b := range deps.Required {
			if err := deps.Check(b); err != nil {
				fmt.Printf("✗ %s: NOT FOUND (%s)\n", b.Name, b.Purpose)
				fmt.Printf("  Install from: %s\n", b.InstallURL)
				allGood = false
			} else {
				fmt.Printf("✓ %s: OK\n", b.Name)
			}
		}

		fmt.Println()
		if allGood {
			fmt.Println("All dependencies are installed!")
		} else {
			fmt.Println("Some dependencies are missing. Please install them to use all features.")
			os.Exit(1)
		}
	},
}

// loadConfig reads the environment, applies the flags that were set on the
// command line and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("min-duration") {
		cfg.MinDurationSec, _ = flags.GetInt("min-duration")
	}
	if flags.Changed("max-duration") {
		cfg.MaxDurationSec, _ = flags.GetInt("max-duration")
	}
	if flags.Changed("dest") {
		cfg.DestinationDir, _ = flags.GetString("dest")
	}
	if flags.Changed("bitrate") {
		cfg.BitrateMbps, _ = flags.GetInt("bitrate")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ResolveSecret(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int("min-duration", config.Unconstrained, "Shortest selection in seconds (-1 for none)")
	pf.Int("max-duration", config.Unconstrained, "Longest selection in seconds (-1 for none)")
	pf.String("dest", "", "Directory exported clips are written to")
	pf.Int("bitrate", 2, "Export video bitrate in Mbit/s")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command. Interrupts cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
