// Package concurrent computes the admin dashboard figures in parallel.
package concurrent

import (
	"context"
	"sync"
	"time"

	"gamesite/models"
	"gamesite/store"

	"golang.org/x/sync/errgroup"
)

// maxParallelQueries bounds the number of COUNT queries in flight.
const maxParallelQueries = 4

type DashboardStats struct {
	TotalGames       int64            `json:"total_games"`
	TotalUsers       int64            `json:"total_users"`
	Gamers           int64            `json:"gamers"`
	Developers       int64            `json:"developers"`
	WhitelistEntries int64            `json:"whitelist_entries"`
	AverageRating    float64          `json:"average_rating"`
	Lookups          map[string]int64 `json:"lookups"`
	CalculationTime  string           `json:"calculation_time"`
}

// Sources are the stores the figures are read from.
type Sources struct {
	Games   *store.GameStore
	Users   *store.UserStore
	Lookups *store.LookupStore
}

// CalculateDashboardStats runs every count concurrently. The first failure
// cancels the rest.
func CalculateDashboardStats(ctx context.Context, src Sources) (*DashboardStats, error) {
	start := time.Now()
	stats := &DashboardStats{Lookups: make(map[string]int64, len(store.Kinds()))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)

	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(ctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&stats.TotalGames, src.Games.Count)
	count(&stats.TotalUsers, src.Users.Count)
	count(&stats.WhitelistEntries, src.Users.WhitelistCount)
	count(&stats.Gamers, func(ctx context.Context) (int64, error) {
		return src.Users.CountByType(ctx, models.UserTypeGamer)
	})
	count(&stats.Developers, func(ctx context.Context) (int64, error) {
		return src.Users.CountByType(ctx, models.UserTypeDev)
	})
	g.Go(func() error {
		avg, err := src.Games.AverageRating(ctx)
		if err != nil {
			return err
		}
		stats.AverageRating = avg
		return nil
	})

	var mu sync.Mutex
	for _, k := range store.Kinds() {
		g.Go(func() error {
			n, err := src.Lookups.Count(ctx, k)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.Lookups[k.Name] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.CalculationTime = time.Since(start).String()
	return stats, nil
}
