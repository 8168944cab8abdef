package client

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/placement/internal/app/models"
)

// DefaultPollInterval matches how often the dashboards refresh
const DefaultPollInterval = 30 * time.Second

// Poller calls Fetch once right away and then every Interval until its
// context ends or Fetch reports an authentication failure.
type Poller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) error
	// OnError sees every failed fetch that does not stop the poller
	OnError func(error)
}

// Run blocks until ctx is done (returning ctx.Err()) or the session is rejected
// (returning the fetch error).
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	if err := p.tick(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (p *Poller) tick(ctx context.Context) error {
	err := p.Fetch(ctx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, ErrUnauthorized) {
		return err
	}
	if p.OnError != nil {
		p.OnError(err)
	}
	return nil
}

// WatchNotifications delivers the notification list on every poll
func (c *Client) WatchNotifications(ctx context.Context, interval time.Duration, onList func([]models.Notification), onError func(error)) error {
	p := &Poller{
		Interval: interval,
		OnError:  onError,
		Fetch: func(ctx context.Context) error {
			list, err := c.Notifications(ctx)
			if err != nil {
				return err
			}
			onList(list)
			return nil
		},
	}
	return p.Run(ctx)
}

// WatchApplications delivers the application list on every poll
func (c *Client) WatchApplications(ctx context.Context, interval time.Duration, onList func([]models.Application), onError func(error)) error {
	p := &Poller{
		Interval: interval,
		OnError:  onError,
		Fetch: func(ctx context.Context) error {
			apps, err := c.Applications(ctx)
			if err != nil {
				return err
			}
			onList(apps)
			return nil
		},
	}
	return p.Run(ctx)
}
