package api

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/libcat/pkg/models"
)

// Status queries gateway health and recommendation status concurrently.
// A health failure fails the call; a recommendation status failure is reported
// in the result.
func (c *Client) Status(ctx context.Context) (*models.ServiceStatus, error) {
	var (
		status models.ServiceStatus
		recErr error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := c.Health(ctx)
		if err != nil {
			return err
		}
		status.Health = *report
		return nil
	})
	g.Go(func() error {
		rec, err := c.RecommendationStatus(ctx)
		if err != nil {
			recErr = err
			return nil
		}
		status.Recommendations = rec
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if recErr != nil {
		c.logger.Warn("recommendation status unavailable", "error", recErr)
		status.RecommendationsError = recErr.Error()
	}
	return &status, nil
}
