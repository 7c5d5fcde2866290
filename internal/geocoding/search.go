// Package geocoding turns free-text place queries into ranked location candidates.
package geocoding

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
)

const (
	// MaxResults caps what Search returns.
	MaxResults = 5
	// FilteredFetchCount leaves room for the qualifier filter to discard candidates.
	FilteredFetchCount = 20
	minQueryLength     = 2
)

// Lookup is the geocoding collaborator. *Client satisfies it.
type Lookup interface {
	Lookup(ctx context.Context, name string, count int) ([]models.SearchCandidate, error)
}

// Service implements location search with "city, region" disambiguation.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	lookup Lookup
	log    *logrus.Entry
}

// NewService creates a search service on top of lookup.
func NewService(lookup Lookup, logger *logrus.Logger) *Service {
	return &Service{
		lookup: lookup,
		log:    logging.Component(logger, "search"),
	}
}

// Query is a parsed search input.
type Query struct {
	Place     string // term sent to the lookup
	Qualifier string // lowercase filter; empty means no filter
}

// ParseQuery splits "place, qualifier" input and resolves state codes.
// ok is false when the input is too short to search.
func ParseQuery(input string) (q Query, ok bool) {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return Query{}, false
	}
	q.Place = trimmed

	place, qualifier, found := strings.Cut(trimmed, ",")
	if !found {
		return q, true
	}
	place = strings.TrimSpace(place)
	qualifier = strings.TrimSpace(qualifier)
	if utf8.RuneCountInString(place) < minQueryLength {
		return q, true
	}

	q.Place = place
	q.Qualifier = resolveQualifier(qualifier)
	return q, true
}

// resolveQualifier expands US state codes; anything else is used verbatim.
// Non-US inputs such as "Paris, France" only work through the raw fallback.
func resolveQualifier(qualifier string) string {
	if qualifier == "" {
		return ""
	}
	if utf8.RuneCountInString(qualifier) == 2 {
		if name, ok := StateName(qualifier); ok {
			return strings.ToLower(name)
		}
	}
	return strings.ToLower(qualifier)
}

// Search returns at most MaxResults candidates in upstream relevance order.
// Inputs shorter than two characters return an empty slice without calling the lookup.
// Lookup failures are returned as is; *SearchFailedError carries the upstream status.
func (s *Service) Search(ctx context.Context, input string) ([]models.SearchCandidate, error) {
	q, ok := ParseQuery(input)
	if !ok {
		return []models.SearchCandidate{}, nil
	}

	count := MaxResults
	if q.Qualifier != "" {
		count = FilteredFetchCount
	}

	raw, err := s.lookup.Lookup(ctx, q.Place, count)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchCandidate, 0, MaxResults)
	for _, c := range raw {
		if len(results) == MaxResults {
			break
		}
		if q.Qualifier != "" && !matchesQualifier(c, q.Qualifier) {
			continue
		}
		results = append(results, c)
	}

	s.log.WithFields(logrus.Fields{
		"place":     q.Place,
		"qualifier": q.Qualifier,
		"fetched":   len(raw),
		"returned":  len(results),
	}).Debug("search done")
	return results, nil
}

func matchesQualifier(c models.SearchCandidate, qualifier string) bool {
	return strings.Contains(strings.ToLower(c.Admin1), qualifier) ||
		strings.Contains(strings.ToLower(c.Country), qualifier)
}
