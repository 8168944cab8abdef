package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yigit/placement/internal/client"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

func newImportCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "import <drive-id> <file.csv>",
		Short: "Bulk update applicant statuses from a CSV (admin)",
		Long: `Reads a CSV whose first two columns are email and status (header required)
and moves each matching applicant of the drive to that status, one row at a time.
Statuses other than shortlisted, interview, waitlisted, selected and rejected are
set to shortlisted and reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			driveID, err := parseID(args[0], "drive")
			if err != nil {
				return err
			}
			path := args[1]
			if err := statusimport.ValidateFileName(path); err != nil {
				return err
			}
			contents, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if remote {
				resp, err := a.client.UploadStatuses(cmd.Context(), driveID, filepath.Base(path), contents)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, resp.Summary)
				return nil
			}

			report, err := a.client.ImportStatuses(cmd.Context(), driveID, path, string(contents))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, report.Summary())
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "upload the file and let the server apply it")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <drive-id>",
		Short: "Download a drive's applicants as CSV (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			driveID, err := parseID(args[0], "drive")
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := a.client.ExportApplications(cmd.Context(), driveID, cmd.OutOrStdout())
				return err
			}

			var buf bytes.Buffer
			name, err := a.client.ExportApplications(cmd.Context(), driveID, &buf)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Base(name)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `file to write ("-" for stdout, default the server's file name)`)
	return cmd
}

func newAnalyticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Placement statistics (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			stats, err := a.client.Analytics(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Drives:        %d (%d active)\n", stats.TotalDrives, stats.ActiveDrives)
			fmt.Fprintf(w, "Students:      %d\n", stats.TotalStudents)
			fmt.Fprintf(w, "Applications:  %d\n", stats.TotalApplications)

			fmt.Fprintln(w, "\nStudents by department")
			printBars(w, client.Bars(stats.DepartmentStats))
			fmt.Fprintln(w, "\nApplications by status")
			printBars(w, client.Bars(stats.StatusStats))
			return nil
		},
	}
}

const barWidth = 30

func printBars(w io.Writer, bars []client.Bar) {
	if len(bars) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	tw := newTable(w)
	for _, b := range bars {
		filled := int(b.Percent/100*barWidth + 0.5)
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", b.Label, strings.Repeat("#", filled)+strings.Repeat(".", barWidth-filled), b.Count)
	}
	_ = tw.Flush()
}
