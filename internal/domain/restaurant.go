package domain

// A restaurant able to cook and hand over orders. Address may be empty when
// the catalog has no address on file; its distance is then unknown.
type Restaurant struct {
	RestaurantID int64
	Name         string
	Address      string
	Phone        string
}

// One row of a restaurant menu: whether the restaurant currently sells the product.
type MenuItem struct {
	RestaurantID int64
	ProductID    int64
	InStock      bool
}

// MenuAvailability answers which restaurants have a product in stock.
// It is read-only once built.
type MenuAvailability struct {
	byProduct map[int64]map[int64]bool
}

func NewMenuAvailability(items []MenuItem) MenuAvailability {
	m := MenuAvailability{byProduct: make(map[int64]map[int64]bool)}
	for _, it := range items {
		rs, ok := m.byProduct[it.ProductID]
		if !ok {
			rs = make(map[int64]bool)
			m.byProduct[it.ProductID] = rs
		}
		rs[it.RestaurantID] = it.InStock
	}
	return m
}

func (m MenuAvailability) InStock(restaurantID, productID int64) bool {
	return m.byProduct[productID][restaurantID]
}

// RestaurantsFor returns the set of restaurants with the product in stock.
func (m MenuAvailability) RestaurantsFor(productID int64) map[int64]struct{} {
	out := make(map[int64]struct{})
	for rid, inStock := range m.byProduct[productID] {
		if inStock {
			out[rid] = struct{}{}
		}
	}
	return out
}
