package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placement/internal/app/models"
)

func TestPollerFetchesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	p := &Poller{
		Interval: time.Hour,
		Fetch: func(context.Context) error {
			calls.Add(1)
			cancel()
			return nil
		},
	}

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPollerKeepsPollingOnErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	var reported atomic.Int32
	p := &Poller{
		Interval: 5 * time.Millisecond,
		Fetch: func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return errors.New("temporary")
		},
		OnError: func(error) { reported.Add(1) },
	}

	err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
	assert.GreaterOrEqual(t, reported.Load(), int32(2))
}

func TestPollerStopsWhenSessionRejected(t *testing.T) {
	p := &Poller{
		Interval: time.Millisecond,
		Fetch: func(context.Context) error {
			return &APIError{Kind: KindAuth, Status: 401, Message: "Authentication required"}
		},
		OnError: func(error) { t.Fatal("auth failures are not reported as transient") },
	}

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestWatchNotifications(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.notifications = []models.Notification{{ID: 1, Message: "New placement drive: Acme - SDE"}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []models.Notification
	err := env.client.WatchNotifications(ctx, time.Hour, func(list []models.Notification) {
		got = list
		cancel()
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 1)
	assert.Equal(t, 1, UnreadCount(got))
}

func TestWatchApplicationsStopsOnExpiredSession(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.sessions.Set(Session{Token: "expired"}))

	err := env.client.WatchApplications(context.Background(), time.Millisecond, func([]models.Application) {
		t.Fatal("no list expected")
	}, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, env.expired)
}
