package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/client"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Show your notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !watch {
				list, err := a.client.Notifications(cmd.Context())
				if err != nil {
					return err
				}
				printNotifications(out, list)
				return nil
			}

			seen := make(map[int64]bool)
			err := a.client.WatchNotifications(cmd.Context(), interval, func(list []models.Notification) {
				// oldest first so new lines read top to bottom
				for i := len(list) - 1; i >= 0; i-- {
					n := list[i]
					if seen[n.ID] {
						continue
					}
					seen[n.ID] = true
					printNotification(out, n)
				}
			}, func(err error) {
				a.logger.Warn().Err(err).Msg("Polling notifications failed")
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling and print new notifications")
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "poll interval for --watch")

	cmd.AddCommand(newMarkReadCmd(a), newMarkAllReadCmd(a))
	return cmd
}

func printNotification(w io.Writer, n models.Notification) {
	mark := " "
	if !n.Read {
		mark = "*"
	}
	fmt.Fprintf(w, "%s %4d  %s  %s\n", mark, n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Message)
}

func printNotifications(w io.Writer, list []models.Notification) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No notifications")
		return
	}
	for _, n := range list {
		printNotification(w, n)
	}
	fmt.Fprintf(w, "%d unread\n", client.UnreadCount(list))
}

func newMarkReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark one notification read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0], "notification")
			if err != nil {
				return err
			}
			if err := a.client.MarkRead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Notification %d marked read\n", id)
			return nil
		},
	}
}

func newMarkAllReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			n, err := a.client.MarkAllRead(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) marked read\n", n)
			return nil
		},
	}
}
