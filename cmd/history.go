package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/video-trimmer-cli/db"
	"github.com/user/video-trimmer-cli/pkg/timeutil"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past exports",
	Long:  `Display past exports as a table, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		database, err := db.Open()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		exports, err := db.SelectExports(database, limit)
		if err != nil {
			return fmt.Errorf("failed to query exports: %w", err)
		}

		printHistory(os.Stdout, exports)
		if len(exports) == 0 {
			fmt.Println("\nNo exports yet.")
		} else {
			fmt.Printf("\n%d export(s) found.\n", len(exports))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one export, including its ffmpeg log on failure",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseExportID(args[0])
		if err != nil {
			return err
		}

		database, err := db.Open()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		e, err := db.SelectExportByID(database, id)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("export with ID %d not found", id)
		} else if err != nil {
			return fmt.Errorf("failed to fetch export: %w", err)
		}

		printExport(os.Stdout, *e)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an export from the history",
	Long:  `Remove an export from the history by ID. The clip file itself is kept. Prompts for confirmation unless --force is used.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseExportID(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		database, err := db.Open()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		e, err := db.SelectExportByID(database, id)
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("export with ID %d not found", id)
		} else if err != nil {
			return fmt.Errorf("failed to fetch export: %w", err)
		}
		fmt.Printf("Export %d (%s of %s)\n", e.ID, timeutil.FormatSelection(e.StartMs, e.EndMs), filepath.Base(e.VideoPath))

		if !force {
			fmt.Print("Are you sure you want to delete this export? [y/N] ")
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Deletion cancelled.")
				return nil
			}
		}

		if err := db.DeleteExport(database, id); err != nil {
			return fmt.Errorf("failed to delete export: %w", err)
		}
		fmt.Printf("Export %d deleted.\n", id)
		return nil
	},
}

func parseExportID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid export ID: %s", s)
	}
	return id, nil
}

// printHistory writes exports as a table.
func printHistory(out io.Writer, exports []db.Export) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVideo\tWindow\tStatus\tOutput")
	fmt.Fprintln(w, "--\t-----\t------\t------\t------")
	for _, e := range exports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID,
			filepath.Base(e.VideoPath),
			timeutil.FormatSelection(e.StartMs, e.EndMs),
			e.Status,
			e.Output(),
		)
	}
	w.Flush()
}

func printExport(out io.Writer, e db.Export) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", e.ID)
	fmt.Fprintf(w, "Video:\t%s\n", e.VideoPath)
	fmt.Fprintf(w, "Window:\t%s\n", timeutil.FormatSelection(e.StartMs, e.EndMs))
	fmt.Fprintf(w, "Status:\t%s\n", e.Status)
	fmt.Fprintf(w, "Output:\t%s\n", e.Output())
	if e.StartedAt != nil {
		fmt.Fprintf(w, "Started:\t%s\n", e.StartedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if e.FinishedAt != nil {
		fmt.Fprintf(w, "Finished:\t%s\n", e.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if e.ErrorAt != nil {
		fmt.Fprintf(w, "Failed:\t%s\n", e.ErrorAt.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	if e.Log != "" {
		fmt.Fprintf(out, "\n%s\n", e.Log)
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of exports to show (0 for all)")
	historyDeleteCmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
