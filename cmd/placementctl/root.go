package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/placement/internal/client"
	"github.com/yigit/placement/internal/pkg/logger"
)

const defaultServer = "http://localhost:8080"

// app carries what every subcommand needs once flags are parsed
type app struct {
	server      string
	sessionPath string
	timeout     time.Duration
	debug       bool

	client   *client.Client
	sessions *client.SessionManager
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "placementctl",
		Short:         "Campus placement portal from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	server := os.Getenv("PLACEMENT_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&a.server, "server", server, "API server root (env PLACEMENT_SERVER)")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default ~/.placementctl/session.json)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "per-request timeout")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log requests to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDrivesCmd(a),
		newDriveCmd(a),
		newApplyCmd(a),
		newApplicationsCmd(a),
		newWithdrawCmd(a),
		newStatusCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newAnalyticsCmd(a),
		newNotificationsCmd(a),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

func (a *app) setup(stderr io.Writer) error {
	level := logger.WarnLevel
	if a.debug {
		level = logger.DebugLevel
	}
	a.logger = logger.Configure(logger.Config{Level: level, Pretty: true, Output: stderr})

	if a.sessionPath == "" {
		path, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		a.sessionPath = path
	}

	sessions, err := client.NewSessionManager(client.NewFileSessionStore(a.sessionPath))
	if err != nil {
		a.logger.Warn().Err(err).Msg("Discarded unreadable session")
	}
	a.sessions = sessions

	a.client = client.New(client.Config{
		BaseURL: a.server,
		Timeout: a.timeout,
		Logger:  &a.logger,
		OnUnauthorized: func() {
			fmt.Fprintln(stderr, "session expired, please log in again")
		},
	}, sessions)
	return nil
}

var errNotSignedIn = errors.New("not signed in: run placementctl login")

// requireSession fails fast instead of sending a request that can only 401
func (a *app) requireSession() error {
	if !a.sessions.Current().Valid() {
		return errNotSignedIn
	}
	return nil
}
