package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/client"
)

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func newDrivesCmd(a *app) *cobra.Command {
	var (
		filter       client.DriveFilter
		bracket      string
		sortKey      string
		serverSearch bool
	)

	cmd := &cobra.Command{
		Use:   "drives",
		Short: "List placement drives",
		Long: `List the drives visible to you. Students only see drives they are eligible for.

--query matches company name and job role locally; add --server-search to run it
through the server's search index instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			b, err := client.ParseBracket(bracket)
			if err != nil {
				return err
			}
			key, err := client.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			filter.Bracket = b

			var (
				drives []dto.DriveResponse
				apps   []models.Application
			)
			if serverSearch {
				drives, err = a.client.Drives(cmd.Context(), filter.Query)
				filter.Query = ""
			} else {
				var d *client.Dashboard
				d, err = a.client.Dashboard(cmd.Context())
				if d != nil {
					drives, apps = d.Drives, d.Applications
				}
			}
			if err != nil {
				return err
			}

			drives = client.SortDrives(client.FilterDrives(drives, filter), key)
			printDrives(cmd.OutOrStdout(), drives, apps, !a.sessions.Current().Identity.IsAdmin())
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "company or role contains")
	cmd.Flags().StringVar(&filter.Location, "location", "", "exact location")
	cmd.Flags().StringVar(&bracket, "bracket", "any", "compensation bracket: any, lt5, 5to10, 10to20, 20plus")
	cmd.Flags().StringVar(&sortKey, "sort", "deadline", "deadline, compensation or company")
	cmd.Flags().BoolVar(&serverSearch, "server-search", false, "search through the server instead of filtering locally")
	return cmd
}

func printDrives(w io.Writer, drives []dto.DriveResponse, apps []models.Application, showApplied bool) {
	if len(drives) == 0 {
		fmt.Fprintln(w, "No drives found")
		return
	}

	tw := newTable(w)
	header := "ID\tCOMPANY\tROLE\tPACKAGE\tLOCATION\tDEADLINE\tSTATUS"
	if showApplied {
		header += "\tAPPLIED"
	}
	fmt.Fprintln(tw, header)
	for _, d := range drives {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%s", d.ID, d.CompanyName, d.JobRole, d.Package, d.Location, d.Deadline, d.Status)
		if showApplied {
			applied := "-"
			if app := client.ApplicationFor(apps, d.ID); app != nil {
				applied = string(app.Status)
			}
			line += "\t" + applied
		}
		fmt.Fprintln(tw, line)
	}
	_ = tw.Flush()
}

func newDriveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drive <id>",
		Short: "Show one drive with its eligibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0], "drive")
			if err != nil {
				return err
			}
			d, err := a.client.Drive(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s (%s)\n", d.CompanyName, d.JobRole, d.Status)
			fmt.Fprintf(w, "Package:   %s\n", d.Package)
			fmt.Fprintf(w, "Location:  %s\n", d.Location)
			fmt.Fprintf(w, "Deadline:  %s\n", d.Deadline)
			fmt.Fprintf(w, "Min CGPA:  %.2f\n", d.Eligibility.MinCGPA)
			fmt.Fprintf(w, "Skills:    %s\n", strings.Join(d.Eligibility.RequiredSkills, ", "))
			fmt.Fprintf(w, "Depts:     %s\n", strings.Join(d.Eligibility.Departments, ", "))
			batches := make([]string, 0, len(d.Eligibility.Batches))
			for _, b := range d.Eligibility.Batches {
				batches = append(batches, strconv.Itoa(b))
			}
			fmt.Fprintf(w, "Batches:   %s\n\n%s\n", strings.Join(batches, ", "), d.JobDescription)
			return nil
		},
	}
}
