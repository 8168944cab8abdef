package client

import (
	"context"

	"github.com/yigit/placement/internal/app/models"
	"github.com/yigit/placement/internal/pkg/statusimport"
)

// apiLedger lets the status importer work through the REST API
type apiLedger struct {
	c *Client
}

func (l apiLedger) ListApplications(ctx context.Context) ([]statusimport.Entry, error) {
	apps, err := l.c.Applications(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]statusimport.Entry, 0, len(apps))
	for _, a := range apps {
		entries = append(entries, statusimport.Entry{
			ApplicationID: a.ID,
			DriveID:       a.DriveID,
			StudentEmail:  a.StudentEmail,
		})
	}
	return entries, nil
}

func (l apiLedger) UpdateStatus(ctx context.Context, applicationID int64, status models.ApplicationStatus) error {
	_, err := l.c.UpdateStatus(ctx, applicationID, status)
	return err
}

// ImportStatuses applies a status CSV to the applications of driveID from
// this client: one list call, then one status update per matched row, in order.
// Bad file names and header-only files are rejected before any request is made.
func (c *Client) ImportStatuses(ctx context.Context, driveID int64, fileName, contents string) (statusimport.Report, error) {
	if err := statusimport.ValidateFileName(fileName); err != nil {
		return statusimport.Report{}, err
	}
	rows, err := statusimport.Parse(contents)
	if err != nil {
		return statusimport.Report{}, err
	}
	return statusimport.NewImporter(apiLedger{c: c}, c.logger).Run(ctx, driveID, rows)
}
