package listing

import (
	"sort"
	"strings"

	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
	"github.com/kailas-cloud/nearby/internal/domain/query"
)

// QueryServices filters, annotates and orders services. It is pure: all is never
// modified and the same input always yields the same output.
//
// Order of steps: category, free text, distance annotation, radius, sort.
func QueryServices(all []domsvc.Service, p query.Params) []domsvc.Annotated {
	needle := strings.ToLower(p.Query)

	out := make([]domsvc.Annotated, 0, len(all))
	for i := range all {
		s := &all[i]
		if p.Category != "" && s.Category != p.Category {
			continue
		}
		if needle != "" && !s.Matches(needle) {
			continue
		}

		var a domsvc.Annotated
		if p.UserLocation != nil {
			a = domsvc.Annotate(*s, *p.UserLocation)
		} else {
			a = domsvc.Plain(*s)
		}

		if p.UserLocation != nil && p.MaxDistanceKm != nil {
			if a.Distance == nil || *a.Distance > *p.MaxDistanceKm {
				continue
			}
		}
		out = append(out, a)
	}

	if p.SortBy == query.SortDistance {
		sortByDistance(out)
	}
	return out
}

// sortByDistance orders ascending by distance; unknown distances go last.
// The sort is stable, so ties keep their input order.
func sortByDistance(items []domsvc.Annotated) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Distance, items[j].Distance
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}
