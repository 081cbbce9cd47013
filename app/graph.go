package app

import (
	"sort"
	"strings"

	"github.com/kochabonline/boot/core/queue"
	"github.com/kochabonline/boot/errors"
)

// sortProviders orders providers so that each appears strictly after all of
// its declared dependencies (Kahn's algorithm). Registration order is the
// tie-breaker, so the result is deterministic for a given Use sequence.
func sortProviders(providers []Provider) ([]Provider, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if _, exists := byName[p.Name()]; exists {
			return nil, errors.Conflict("duplicate provider name %s", p.Name()).
				WithMetadata(map[string]string{"provider": p.Name()})
		}
		byName[p.Name()] = p
	}

	indegree := make(map[string]int, len(providers))
	dependents := make(map[string][]string, len(providers))

	for _, p := range providers {
		indegree[p.Name()] = len(p.Dependencies())
		for _, dep := range p.Dependencies() {
			if _, known := byName[dep]; !known {
				return nil, errors.FailedDependency("provider %s depends on unknown provider %s", p.Name(), dep).
					WithMetadata(map[string]string{"provider": p.Name(), "dependency": dep})
			}
			dependents[dep] = append(dependents[dep], p.Name())
		}
	}

	ready := queue.Default[string]()
	for _, p := range providers {
		if indegree[p.Name()] == 0 {
			ready.Push(p.Name())
		}
	}

	sorted := make([]Provider, 0, len(providers))
	for ready.Len() > 0 {
		name := ready.Pop()
		sorted = append(sorted, byName[name])

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready.Push(dependent)
			}
		}
	}

	if len(sorted) < len(providers) {
		cyclic := make([]string, 0, len(providers)-len(sorted))
		for name, degree := range indegree {
			if degree > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)

		return nil, errors.LoopDetected("circular dependency among providers: %s", strings.Join(cyclic, ", ")).
			WithMetadata(map[string]string{"providers": strings.Join(cyclic, ",")})
	}

	return sorted, nil
}
