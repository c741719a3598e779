package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// CatalogRepo serves the static restaurant catalog and floor plan.  All
// restaurants share the same floor plan.  The data is immutable, so the
// repository hands out copies and needs no locking.
type CatalogRepo struct {
	restaurants []model.Restaurant
	tables      []model.Table
}

// NewCatalogRepo returns a CatalogRepo over the given data.  Callers that
// want the demo data use NewSeedCatalogRepo.
func NewCatalogRepo(restaurants []model.Restaurant, tables []model.Table) *CatalogRepo {
	return &CatalogRepo{restaurants: restaurants, tables: tables}
}

// NewSeedCatalogRepo returns a CatalogRepo holding the demo catalog.
func NewSeedCatalogRepo() *CatalogRepo {
	return NewCatalogRepo(SeedRestaurants(), SeedTables())
}

// CatalogQuery filters the restaurant list.  Term matches the name or the
// cuisine, case-insensitively.  Cuisine and Location must match exactly;
// empty or "all" disables the filter.
type CatalogQuery struct {
	Term     string
	Cuisine  string
	Location string
}

// Search returns the restaurants matching q in catalog order.
func (r *CatalogRepo) Search(ctx context.Context, q CatalogQuery) ([]model.Restaurant, error) {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]model.Restaurant, 0, len(r.restaurants))
	for _, rest := range r.restaurants {
		if term != "" &&
			!strings.Contains(strings.ToLower(rest.Name), term) &&
			!strings.Contains(strings.ToLower(rest.Cuisine), term) {
			continue
		}
		if !matchFacet(q.Cuisine, rest.Cuisine) || !matchFacet(q.Location, rest.Location) {
			continue
		}
		out = append(out, rest)
	}
	return out, nil
}

func matchFacet(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return filter == value
}

// GetByID returns a restaurant or ErrRestaurantNotFound.
func (r *CatalogRepo) GetByID(ctx context.Context, id string) (model.Restaurant, error) {
	for _, rest := range r.restaurants {
		if rest.ID == id {
			return rest, nil
		}
	}
	return model.Restaurant{}, ErrRestaurantNotFound
}

// Cuisines lists the distinct cuisines, sorted.
func (r *CatalogRepo) Cuisines(ctx context.Context) []string {
	return distinct(r.restaurants, func(m model.Restaurant) string { return m.Cuisine })
}

// Locations lists the distinct locations, sorted.
func (r *CatalogRepo) Locations(ctx context.Context) []string {
	return distinct(r.restaurants, func(m model.Restaurant) string { return m.Location })
}

func distinct(rs []model.Restaurant, key func(model.Restaurant) string) []string {
	seen := make(map[string]struct{}, len(rs))
	out := make([]string, 0, len(rs))
	for _, rest := range rs {
		k := key(rest)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Tables returns the floor plan.
func (r *CatalogRepo) Tables(ctx context.Context) ([]model.Table, error) {
	out := make([]model.Table, len(r.tables))
	copy(out, r.tables)
	return out, nil
}

// TableByID returns a table or ErrTableNotFound.
func (r *CatalogRepo) TableByID(ctx context.Context, id string) (model.Table, error) {
	for _, t := range r.tables {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Table{}, ErrTableNotFound
}
