package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yigit/placement/internal/app/models"
)

func newApplyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <drive-id>",
		Short: "Apply to a drive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			driveID, err := parseID(args[0], "drive")
			if err != nil {
				return err
			}
			app, err := a.client.Apply(cmd.Context(), driveID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied to %s - %s (application %d)\n", app.CompanyName, app.JobRole, app.ID)
			return nil
		},
	}
}

func newApplicationsCmd(a *app) *cobra.Command {
	var driveID int64

	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "List applications (yours, or a drive's applicants with --drive)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var (
				apps []models.Application
				err  error
			)
			if driveID > 0 {
				apps, err = a.client.DriveApplications(cmd.Context(), driveID)
			} else {
				apps, err = a.client.Applications(cmd.Context())
			}
			if err != nil {
				return err
			}
			printApplications(cmd.OutOrStdout(), apps, a.sessions.Current().Identity.IsAdmin())
			return nil
		},
	}
	cmd.Flags().Int64Var(&driveID, "drive", 0, "list the applicants of this drive (admin)")
	return cmd
}

func printApplications(w io.Writer, apps []models.Application, admin bool) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications")
		return
	}

	tw := newTable(w)
	if admin {
		fmt.Fprintln(tw, "ID\tDRIVE\tCOMPANY\tSTUDENT\tEMAIL\tDEPARTMENT\tCGPA\tSTATUS")
		for _, app := range apps {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
				app.ID, app.DriveID, app.CompanyName, app.StudentName, app.StudentEmail, app.StudentDepartment, app.StudentCGPA, app.Status)
		}
	} else {
		fmt.Fprintln(tw, "ID\tCOMPANY\tROLE\tAPPLIED\tSTATUS")
		for _, app := range apps {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				app.ID, app.CompanyName, app.JobRole, app.AppliedAt.Format(models.DeadlineLayout), app.Status)
		}
	}
	_ = tw.Flush()
}

func newWithdrawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <application-id>",
		Short: "Withdraw an application that is still in the applied state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0], "application")
			if err != nil {
				return err
			}
			if err := a.client.Withdraw(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %d withdrawn\n", id)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <application-id> <status>",
		Short: "Set the status of an application (admin)",
		Long:  "Statuses: applied, shortlisted, interview, waitlisted, selected, rejected.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0], "application")
			if err != nil {
				return err
			}
			status, ok := models.ParseApplicationStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}

			app, err := a.client.UpdateStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", app.StudentName, app.StudentEmail, app.Status)
			return nil
		},
	}
}
