package geocoding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/testutil"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		input string
		want  Query
		ok    bool
	}{
		{"", Query{}, false},
		{" a ", Query{}, false},
		{"é", Query{}, false},
		{"Paris", Query{Place: "Paris"}, true},
		{"  Springfield , IL ", Query{Place: "Springfield", Qualifier: "illinois"}, true},
		{"Springfield, il", Query{Place: "Springfield", Qualifier: "illinois"}, true},
		{"Washington, dc", Query{Place: "Washington", Qualifier: "district of columbia"}, true},
		{"Paris, France", Query{Place: "Paris", Qualifier: "france"}, true},
		{"Paris, ZZ", Query{Place: "Paris", Qualifier: "zz"}, true},
		{"Paris,", Query{Place: "Paris"}, true},
		{"X, PA", Query{Place: "X, PA"}, true},
		{"Portland, OR, USA", Query{Place: "Portland", Qualifier: "or, usa"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseQuery(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateName(t *testing.T) {
	name, ok := StateName(" pa ")
	assert.True(t, ok)
	assert.Equal(t, "Pennsylvania", name)

	_, ok = StateName("XX")
	assert.False(t, ok)
	assert.Len(t, usStates, 51)
}

func TestService_Search_ShortQuery(t *testing.T) {
	lookup := &testutil.FakeLookup{}
	svc := NewService(lookup, nil)

	for _, input := range []string{"", "a", "  b  "} {
		results, err := svc.Search(context.Background(), input)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Empty(t, lookup.Calls)
}

func TestService_Search_Plain(t *testing.T) {
	lookup := &testutil.FakeLookup{Results: []models.SearchCandidate{
		testutil.Candidate("Paris", "Île-de-France", "France", 48.85341, 2.3488),
		testutil.Candidate("Paris", "Texas", "United States", 33.66094, -95.55551),
	}}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "  Paris ")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []testutil.LookupCall{{Name: "Paris", Count: MaxResults}}, lookup.Calls)
}

func TestService_Search_StateQualifier(t *testing.T) {
	lookup := &testutil.FakeLookup{Results: []models.SearchCandidate{
		testutil.Candidate("Springfield", "Illinois", "United States", 39.80172, -89.64371),
		testutil.Candidate("Springfield", "Missouri", "United States", 37.21533, -93.29824),
		testutil.Candidate("Springfield", "Pennsylvania", "United States", 39.93, -75.32),
		testutil.Candidate("Springfield", "Massachusetts", "United States", 42.10148, -72.58981),
	}}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "Springfield, pa")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pennsylvania", results[0].Admin1)
	assert.Equal(t, []testutil.LookupCall{{Name: "Springfield", Count: FilteredFetchCount}}, lookup.Calls)
}

func TestService_Search_RawQualifier(t *testing.T) {
	lookup := &testutil.FakeLookup{Results: []models.SearchCandidate{
		testutil.Candidate("Paris", "Île-de-France", "France", 48.85341, 2.3488),
		testutil.Candidate("Paris", "Texas", "United States", 33.66094, -95.55551),
		testutil.Candidate("Paris", "Ontario", "Canada", 43.2, -80.38333),
	}}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "Paris, france")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "France", results[0].Country)

	results, err = svc.Search(context.Background(), "Paris, tex")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Texas", results[0].Admin1)
}

func TestService_Search_ShortPlaceSearchesWholeQuery(t *testing.T) {
	lookup := &testutil.FakeLookup{}
	svc := NewService(lookup, nil)

	_, err := svc.Search(context.Background(), "X, PA")
	require.NoError(t, err)
	assert.Equal(t, []testutil.LookupCall{{Name: "X, PA", Count: MaxResults}}, lookup.Calls)
}

func TestService_Search_CapsResults(t *testing.T) {
	var many []models.SearchCandidate
	for i := 0; i < 20; i++ {
		many = append(many, testutil.Candidate("Springfield", "Illinois", "United States", float64(i), float64(i)))
	}
	lookup := &testutil.FakeLookup{Results: many}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "Springfield, IL")
	require.NoError(t, err)
	require.Len(t, results, MaxResults)
	for i, r := range results {
		assert.Equal(t, float64(i), r.Latitude, "upstream order is kept")
	}

	results, err = svc.Search(context.Background(), "Springfield")
	require.NoError(t, err)
	assert.Len(t, results, MaxResults)
}

func TestService_Search_Error(t *testing.T) {
	lookup := &testutil.FakeLookup{Err: &SearchFailedError{Status: 500}}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "Paris")
	assert.Nil(t, results)

	var searchErr *SearchFailedError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, 500, searchErr.Status)
}

func TestService_Search_NoMatches(t *testing.T) {
	lookup := &testutil.FakeLookup{Results: []models.SearchCandidate{
		testutil.Candidate("Paris", "Texas", "United States", 33.66094, -95.55551),
	}}
	svc := NewService(lookup, nil)

	results, err := svc.Search(context.Background(), "Paris, OH")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
