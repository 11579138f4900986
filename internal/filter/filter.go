// Package filter computes the visible subset and ordering of the
// registration list for the admin dashboard and its export.
//
// Filters are declared in a registry of {key, build} entries so that adding
// one is a data change. A filter whose input is empty or incomplete is
// inactive: it is absent from the predicate conjunction entirely, which for
// zero active filters makes Apply the identity.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/elioraretreat/registration-server/internal/model"
)

// Query holds the raw filter input from the admin surface. Zero values
// leave the corresponding filter inactive.
type Query struct {
	Search        string
	Gender        string
	LifeStatus    string
	Parish        string
	PaymentMethod string
	DOBFrom       time.Time
	DOBTo         time.Time
	RegFrom       time.Time
	RegTo         time.Time
}

// Predicate reports whether a registration passes one active filter.
type Predicate func(model.Registration) bool

// Definition declares one filter: its key and how to build its predicate.
// Build returns false when the query leaves this filter inactive.
type Definition struct {
	Key   string
	Build func(Query) (Predicate, bool)
}

// Definitions is the filter registry. All active predicates combine with
// logical AND.
var Definitions = []Definition{
	{
		Key: "search",
		Build: func(q Query) (Predicate, bool) {
			term := strings.ToLower(strings.TrimSpace(q.Search))
			if term == "" {
				return nil, false
			}
			return func(r model.Registration) bool {
				return strings.Contains(strings.ToLower(r.FullName), term) ||
					strings.Contains(strings.ToLower(r.EmailAddress), term)
			}, true
		},
	},
	{
		Key: "gender",
		Build: func(q Query) (Predicate, bool) {
			if q.Gender == "" {
				return nil, false
			}
			return func(r model.Registration) bool {
				return string(r.Gender) == q.Gender
			}, true
		},
	},
	{
		Key: "lifeStatus",
		Build: func(q Query) (Predicate, bool) {
			if q.LifeStatus == "" {
				return nil, false
			}
			return func(r model.Registration) bool {
				return string(r.LifeStatus) == q.LifeStatus
			}, true
		},
	},
	{
		Key: "parish",
		Build: func(q Query) (Predicate, bool) {
			term := strings.ToLower(strings.TrimSpace(q.Parish))
			if term == "" {
				return nil, false
			}
			return func(r model.Registration) bool {
				return strings.Contains(strings.ToLower(r.ParishName), term)
			}, true
		},
	},
	{
		Key: "paymentMethod",
		Build: func(q Query) (Predicate, bool) {
			if q.PaymentMethod == "" {
				return nil, false
			}
			return func(r model.Registration) bool {
				return string(r.PaymentMethod) == q.PaymentMethod
			}, true
		},
	},
	{
		Key: "dobRange",
		Build: func(q Query) (Predicate, bool) {
			// Both bounds must be set or the filter is inactive.
			if q.DOBFrom.IsZero() || q.DOBTo.IsZero() {
				return nil, false
			}
			return func(r model.Registration) bool {
				return inRange(r.DateOfBirth, q.DOBFrom, q.DOBTo)
			}, true
		},
	},
	{
		Key: "regDate",
		Build: func(q Query) (Predicate, bool) {
			if q.RegFrom.IsZero() || q.RegTo.IsZero() {
				return nil, false
			}
			return func(r model.Registration) bool {
				return inRange(r.CreatedAt, q.RegFrom, q.RegTo)
			}, true
		},
	},
}

// inRange is inclusive at both ends.
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// Apply returns the registrations passing every active filter, preserving
// input order. With no active filters the input is returned unchanged.
func Apply(registrations []model.Registration, q Query) []model.Registration {
	var active []Predicate
	for _, def := range Definitions {
		if pred, ok := def.Build(q); ok {
			active = append(active, pred)
		}
	}
	if len(active) == 0 {
		return registrations
	}

	filtered := make([]model.Registration, 0, len(registrations))
	for _, r := range registrations {
		pass := true
		for _, pred := range active {
			if !pred(r) {
				pass = false
				break
			}
		}
		if pass {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort is the single active sort key and its direction. The zero value
// means no sort: records stay in store order (newest first).
type Sort struct {
	Key       string
	Direction Direction
}

// Toggle returns the sort state after clicking key: the same key flips
// direction, a different key starts ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		if s.Direction == Ascending {
			return Sort{Key: key, Direction: Descending}
		}
		return Sort{Key: key, Direction: Ascending}
	}
	return Sort{Key: key, Direction: Ascending}
}

// comparators order registrations by the natural ordering of each sortable
// field. Adding a sortable column is a data change.
var comparators = map[string]func(a, b model.Registration) int{
	"name":       func(a, b model.Registration) int { return strings.Compare(a.FullName, b.FullName) },
	"gender":     func(a, b model.Registration) int { return strings.Compare(string(a.Gender), string(b.Gender)) },
	"status":     func(a, b model.Registration) int { return strings.Compare(string(a.LifeStatus), string(b.LifeStatus)) },
	"dob":        func(a, b model.Registration) int { return a.DateOfBirth.Compare(b.DateOfBirth) },
	"parish":     func(a, b model.Registration) int { return strings.Compare(a.ParishName, b.ParishName) },
	"payment":    func(a, b model.Registration) int { return strings.Compare(string(a.PaymentMethod), string(b.PaymentMethod)) },
	"registered": func(a, b model.Registration) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// SortKeys reports the registered sortable keys.
func SortKeys() []string {
	keys := make([]string, 0, len(comparators))
	for k := range comparators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApplySort orders registrations in place according to s. An unknown or
// empty key leaves the slice untouched.
func ApplySort(registrations []model.Registration, s Sort) {
	cmp, ok := comparators[s.Key]
	if !ok {
		return
	}

	sort.SliceStable(registrations, func(i, j int) bool {
		c := cmp(registrations[i], registrations[j])
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
}
