package geospatial

import "sort"

// Entity is anything with a stable identifier and a location.
type Entity interface {
	EntityID() string
	Point() Point
}

// Neighbor pairs an entity with its display distance from a reference.
type Neighbor[E Entity] struct {
	Entity     E
	DistanceKm float64
}

// WithinRadius returns the candidates whose distance to ref is at most radiusKm,
// in input order. Candidates sharing ref's ID are always excluded. A
// non-positive radius yields an empty result.
func WithinRadius[E Entity](ref E, candidates []E, radiusKm float64) []E {
	out := []E{}
	if radiusKm <= 0 || len(candidates) == 0 {
		return out
	}

	origin := ref.Point()
	refID := ref.EntityID()
	for _, c := range candidates {
		if c.EntityID() == refID {
			continue
		}
		if ExactDistanceKm(origin, c.Point()) <= radiusKm {
			out = append(out, c)
		}
	}
	return out
}

// NearestN returns up to n candidates closest to ref, nearest first. Equal
// distances keep their input order. ref itself is never returned.
func NearestN[E Entity](ref E, candidates []E, n int) []Neighbor[E] {
	if n <= 0 || len(candidates) == 0 {
		return []Neighbor[E]{}
	}

	type ranked struct {
		entity E
		exact  float64
	}

	origin := ref.Point()
	refID := ref.EntityID()
	all := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.EntityID() == refID {
			continue
		}
		all = append(all, ranked{entity: c, exact: ExactDistanceKm(origin, c.Point())})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].exact < all[j].exact })

	if n > len(all) {
		n = len(all)
	}
	out := make([]Neighbor[E], n)
	for i := 0; i < n; i++ {
		out[i] = Neighbor[E]{Entity: all[i].entity, DistanceKm: RoundKm(all[i].exact)}
	}
	return out
}

// Annotate attaches display distances from ref to entities without filtering
// or reordering them.
func Annotate[E Entity](ref E, entities []E) []Neighbor[E] {
	origin := ref.Point()
	out := make([]Neighbor[E], len(entities))
	for i, e := range entities {
		out[i] = Neighbor[E]{Entity: e, DistanceKm: DistanceKm(origin, e.Point())}
	}
	return out
}
