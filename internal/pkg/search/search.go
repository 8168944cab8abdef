// Package search keeps a full-text index of drives in Elasticsearch.
package search

import (
	"context"
	"errors"

	"github.com/yigit/placement/internal/app/models"
)

// ErrDisabled is returned by Search when no index is configured
var ErrDisabled = errors.New("search is disabled")

// DriveIndex mirrors drives into a search engine.
type DriveIndex interface {
	EnsureIndex(ctx context.Context) error
	IndexDrive(ctx context.Context, drive *models.Drive) error
	DeleteDrive(ctx context.Context, driveID int64) error
	Search(ctx context.Context, query string, limit int) ([]int64, error)
}

// NoopIndex is used when search is disabled.
type NoopIndex struct{}

func (NoopIndex) EnsureIndex(context.Context) error { return nil }
func (NoopIndex) IndexDrive(context.Context, *models.Drive) error { return nil }
func (NoopIndex) DeleteDrive(context.Context, int64) error { return nil }
func (NoopIndex) Search(context.Context, string, int) ([]int64, error) { return nil, ErrDisabled }
