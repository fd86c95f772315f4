package services

import (
	"context"
	"restaurant-dispatch-service/internal/domain"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func rankingFixture() (domain.MenuAvailability, map[int64]*domain.Restaurant) {
	avail := domain.NewMenuAvailability([]domain.MenuItem{
		{RestaurantID: 1, ProductID: 10, InStock: true},
		{RestaurantID: 2, ProductID: 10, InStock: true},
		{RestaurantID: 3, ProductID: 10, InStock: true},
		{RestaurantID: 4, ProductID: 10, InStock: true},
		{RestaurantID: 5, ProductID: 10, InStock: true},
	})
	restaurants := map[int64]*domain.Restaurant{
		1: {RestaurantID: 1, Name: "Unknown street", Address: "Moscow, Nowhere 1"},
		2: {RestaurantID: 2, Name: "Tverskaya", Address: "Moscow, Tverskaya 10"},
		3: {RestaurantID: 3, Name: "No address"},
		4: {RestaurantID: 4, Name: "Arbat", Address: "Moscow, Arbat 1"},
		5: {RestaurantID: 5, Name: "Lenina", Address: "Moscow, Lenina 5"},
	}
	return avail, restaurants
}

func candidateIDs(ranked []domain.RankedRestaurant) []int64 {
	ids := make([]int64, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.RestaurantID)
	}
	return ids
}

func TestRankRestaurants_NearestFirstUnknownLast(t *testing.T) {
	avail, restaurants := rankingFixture()
	c, _, _ := newTestCache(map[string]domain.Coordinates{
		"Moscow, Tverskaya 10": tverskaya,
		"Moscow, Arbat 1":      arbat,
		"Moscow, Lenina 5":     lenina,
	})

	order := &domain.Order{
		OrderID: 1,
		Address: "Moscow, Arbat 1",
		Lines:   []domain.OrderLine{{ProductID: 10, Quantity: 1}},
	}

	ranked, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
	if err != nil {
		t.Fatalf("RankRestaurants error: %v", err)
	}

	want := []int64{4, 2, 5, 1, 3}
	if got := candidateIDs(ranked); !slices.Equal(got, want) {
		t.Fatalf("candidate order = %v, want %v", got, want)
	}

	if km, ok := ranked[0].Distance.Kilometers(); !ok || km != 0 {
		t.Errorf("same-address distance = %v", ranked[0].Distance)
	}
	for _, r := range ranked[3:] {
		if r.Distance.Known() {
			t.Errorf("restaurant %d should have unknown distance, got %v", r.RestaurantID, r.Distance)
		}
	}
}

func TestRankRestaurants_UnknownOrderAddress(t *testing.T) {
	avail, restaurants := rankingFixture()
	c, _, _ := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})

	order := &domain.Order{OrderID: 1, Address: "Atlantis", Lines: []domain.OrderLine{{ProductID: 10}}}
	ranked, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
	if err != nil {
		t.Fatalf("RankRestaurants error: %v", err)
	}

	if got := candidateIDs(ranked); !slices.Equal(got, []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("all-unknown candidates must keep candidate order, got %v", got)
	}
}

func TestRankRestaurants_ManualAssignmentSkipsLookups(t *testing.T) {
	avail, restaurants := rankingFixture()
	c, store, geo := newTestCache(map[string]domain.Coordinates{"Moscow, Arbat 1": arbat})

	assigned := int64(2)
	order := &domain.Order{
		OrderID:                 1,
		Address:                 "Moscow, Arbat 1",
		ResponsibleRestaurantID: &assigned,
		Lines:                   []domain.OrderLine{{ProductID: 10}},
	}

	ranked, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
	if err != nil {
		t.Fatalf("RankRestaurants error: %v", err)
	}
	if ranked == nil || len(ranked) != 0 {
		t.Fatalf("expected empty candidates, got %v", ranked)
	}
	if geo.TotalCalls() != 0 || store.Len() != 0 {
		t.Fatalf("manual assignment caused lookups: calls=%d entries=%d", geo.TotalCalls(), store.Len())
	}
}

func TestRankRestaurants_NoCandidatesSkipsLookups(t *testing.T) {
	avail, restaurants := rankingFixture()
	c, _, geo := newTestCache(nil)

	order := &domain.Order{OrderID: 1, Address: "Moscow, Arbat 1", Lines: []domain.OrderLine{{ProductID: 99}}}
	ranked, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
	if err != nil {
		t.Fatalf("RankRestaurants error: %v", err)
	}
	if len(ranked) != 0 || geo.TotalCalls() != 0 {
		t.Fatalf("ranked=%v calls=%d, want none", ranked, geo.TotalCalls())
	}
}

func TestRankRestaurants_IsDeterministic(t *testing.T) {
	avail, restaurants := rankingFixture()
	c, _, _ := newTestCache(map[string]domain.Coordinates{
		"Moscow, Tverskaya 10": tverskaya,
		"Moscow, Lenina 5":     lenina,
	})
	order := &domain.Order{OrderID: 1, Address: "Moscow, Tverskaya 10", Lines: []domain.OrderLine{{ProductID: 10}}}

	first, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := RankRestaurants(context.Background(), order, avail, restaurants, NewBatchMemo(c))
		if err != nil {
			t.Fatalf("run %d: %v", i+2, err)
		}
		if !slices.Equal(candidateIDs(first), candidateIDs(again)) {
			t.Fatalf("run %d differs: %v vs %v", i+2, candidateIDs(first), candidateIDs(again))
		}
	}
}

// countingResolver records how often each address reaches it.
type countingResolver struct {
	mu    sync.Mutex
	calls map[string]int
	total atomic.Int64
	delay time.Duration
}

func (r *countingResolver) Lookup(_ context.Context, address string) (*domain.Coordinates, error) {
	time.Sleep(r.delay)
	r.total.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[address]++
	c := arbat
	return &c, nil
}

func TestBatchMemo_ConcurrentLookupsShareOneCall(t *testing.T) {
	r := &countingResolver{delay: 10 * time.Millisecond}
	memo := NewBatchMemo(r)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := memo.Lookup(context.Background(), "Moscow, Arbat 1"); err != nil {
				t.Errorf("Lookup error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := r.total.Load(); n != 1 {
		t.Fatalf("resolver called %d times, want 1", n)
	}
	if memo.Len() != 1 {
		t.Fatalf("memo holds %d entries, want 1", memo.Len())
	}
}

func TestBatchMemo_PrefetchUsesBatchResolver(t *testing.T) {
	c, _, geo := newTestCache(map[string]domain.Coordinates{
		"Moscow, Arbat 1":      arbat,
		"Moscow, Tverskaya 10": tverskaya,
	})
	memo := NewBatchMemo(c)

	if err := memo.Prefetch(context.Background(), []string{"Moscow, Arbat 1", "Moscow, Tverskaya 10", "Atlantis"}); err != nil {
		t.Fatalf("Prefetch error: %v", err)
	}
	if memo.Len() != 3 {
		t.Fatalf("memo holds %d entries, want 3", memo.Len())
	}

	before := geo.TotalCalls()
	got, err := memo.Lookup(context.Background(), "Atlantis")
	if err != nil || got != nil {
		t.Fatalf("Lookup(Atlantis) = %v, %v", got, err)
	}
	if geo.TotalCalls() != before {
		t.Fatalf("prefetched address reached the geocoder again")
	}
}

func TestBatchMemo_PrefetchWithoutBatchSupportIsNoop(t *testing.T) {
	r := &countingResolver{}
	memo := NewBatchMemo(r)
	if err := memo.Prefetch(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("Prefetch error: %v", err)
	}
	if memo.Len() != 0 || r.total.Load() != 0 {
		t.Fatalf("prefetch should not resolve without batch support")
	}
}
