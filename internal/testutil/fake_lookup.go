package testutil

import (
	"context"
	"sync"

	"github.com/tilewx/backend/internal/models"
)

// LookupCall records one call made to FakeLookup.
type LookupCall struct {
	Name  string
	Count int
}

// FakeLookup is a canned geocoding lookup. It returns Results (capped at the
// requested count, like the upstream API) or Err.
type FakeLookup struct {
	mu      sync.Mutex
	Results []models.SearchCandidate
	Err     error
	Calls   []LookupCall
}

func (f *FakeLookup) Lookup(ctx context.Context, name string, count int) ([]models.SearchCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, LookupCall{Name: name, Count: count})
	if f.Err != nil {
		return nil, f.Err
	}
	results := f.Results
	if count < len(results) {
		results = results[:count]
	}
	return append([]models.SearchCandidate(nil), results...), nil
}

// Candidate builds a search candidate with the fields tests usually care about.
func Candidate(name, admin1, country string, lat, lon float64) models.SearchCandidate {
	return models.SearchCandidate{
		Name:      name,
		Admin1:    admin1,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
		Timezone:  "auto",
	}
}
