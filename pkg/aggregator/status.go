package aggregator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"meta-swap/pkg/metrics"
	"meta-swap/pkg/provider"
	"meta-swap/pkg/types"
)

// DefaultWatchInterval is the polling period of Watch
const DefaultWatchInterval = 10 * time.Second

// Status asks the providers able to track transfers and returns the first
// answer in provider order. Providers default to every registered
// one, the aggregator's available set.
// It returns (nil, nil) when nobody knows the transfer; provider errors
// are logged only.
func (a *Aggregator) Status(ctx context.Context, q types.StatusQuery) (*types.StatusResponse, error) {
	ids := q.ProviderIDs
	if len(ids) == 0 {
		ids = a.registry.IDs()
	}
	log := a.log.WithField("status_id", q.ID())

	results := make([]*types.StatusResponse, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		p, ok := a.registry.Get(id)
		if !ok {
			log.Warnf("unknown provider %s, skipped", id)
			continue
		}
		checker, ok := p.(provider.StatusChecker)
		if !ok {
			continue
		}
		g.Go(func() error {
			res, err := status(ctx, checker, id, q)
			switch {
			case err != nil:
				metrics.StatusRequestsTotal.WithLabelValues(string(id), metrics.OutcomeError).Inc()
				log.WithField("provider", id).WithError(err).Warn("status failed")
			case res == nil:
				metrics.StatusRequestsTotal.WithLabelValues(string(id), metrics.OutcomeAbsent).Inc()
			default:
				metrics.StatusRequestsTotal.WithLabelValues(string(id), metrics.OutcomeRoute).Inc()
				res.ProviderID = id
				results[i] = res
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res != nil {
			return res, nil
		}
	}
	return nil, nil
}

func status(ctx context.Context, checker provider.StatusChecker, id types.ProviderID, q types.StatusQuery) (res *types.StatusResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%s: panic: %v", id, r)
		}
	}()
	return checker.Status(ctx, q)
}

// Watch polls Status every interval and passes each answer, nil included,
// to fn. It returns once the status is final or ctx is done.
func (a *Aggregator) Watch(ctx context.Context, q types.StatusQuery, interval time.Duration, fn func(*types.StatusResponse)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := a.Status(ctx, q)
		if err != nil {
			return err
		}
		fn(res)
		if res != nil && res.Status.Final() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
