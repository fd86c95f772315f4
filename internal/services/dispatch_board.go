package services

import (
	"context"
	"fmt"
	"restaurant-dispatch-service/internal/domain"
	"restaurant-dispatch-service/internal/platform/obs"
	"restaurant-dispatch-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const DefaultRankConcurrency = 5

// DispatchBoard is the dispatcher view of all pending orders.
type DispatchBoard struct {
	Orders      []domain.OrderCandidates
	Restaurants map[int64]*domain.Restaurant
}

// BuildDispatchBoard loads pending orders and ranks candidate restaurants for
// each of them. All orders share one BatchMemo so every distinct address is
// resolved at most once per call. Orders keep catalog order.
func BuildDispatchBoard(
	ctx context.Context,
	catalog ports.CatalogRepository,
	resolver ports.CoordinateResolver,
	concurrency int,
) (_ *DispatchBoard, err error) {
	defer obs.Time(ctx, "dispatch.BuildDispatchBoard")(&err)

	if concurrency <= 0 {
		concurrency = DefaultRankConcurrency
	}

	orders, err := catalog.ListPendingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch board: list orders: %w", err)
	}

	items, err := catalog.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch board: list menu items: %w", err)
	}
	availability := domain.NewMenuAvailability(items)

	list, err := catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("dispatch board: list restaurants: %w", err)
	}
	restaurants := make(map[int64]*domain.Restaurant, len(list))
	for _, r := range list {
		restaurants[r.RestaurantID] = r
	}

	memo := NewBatchMemo(resolver)

	// Warm the memo in one batch with only the addresses ranking will need.
	if err := memo.Prefetch(ctx, addressesToRank(orders, availability, restaurants)); err != nil {
		return nil, fmt.Errorf("dispatch board: prefetch addresses: %w", err)
	}

	board := &DispatchBoard{
		Orders:      make([]domain.OrderCandidates, len(orders)),
		Restaurants: restaurants,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			ranked, err := RankRestaurants(gctx, order, availability, restaurants, memo)
			if err != nil {
				return err
			}
			board.Orders[i] = domain.OrderCandidates{Order: order, Candidates: ranked}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dispatch board: %w", err)
	}

	return board, nil
}

func addressesToRank(
	orders []*domain.Order,
	availability domain.MenuAvailability,
	restaurants map[int64]*domain.Restaurant,
) []string {
	addrs := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.ResponsibleRestaurantID != nil {
			continue
		}
		ids := AvailableRestaurants(o.Lines, availability)
		if len(ids) == 0 {
			continue
		}
		addrs = append(addrs, o.Address)
		for _, rid := range ids {
			if r, ok := restaurants[rid]; ok {
				addrs = append(addrs, r.Address)
			}
		}
	}
	return addrs
}
