package share

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/storage"
	"github.com/tilewx/backend/internal/testutil"
)

func sampleEntries() []models.LocationEntry {
	return []models.LocationEntry{
		models.NewLocationEntry("Philadelphia", "Pennsylvania", "United States", 39.95233, -75.16379, "America/New_York"),
		models.NewLocationEntry("Tokyo", "", "Japan", 35.6895, 139.69171, ""),
		models.NewLocationEntry("", "", "", -33.86785, 151.20732, "Australia/Sydney"),
	}
}

func assertSamePlaces(t *testing.T, want, got []models.LocationEntry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Latitude, got[i].Latitude)
		assert.Equal(t, want[i].Longitude, got[i].Longitude)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Admin1, got[i].Admin1)
		assert.Equal(t, want[i].Timezone, got[i].Timezone)
		assert.NotEmpty(t, got[i].ID)
		assert.NotEqual(t, want[i].ID, got[i].ID)
		assert.Equal(t, "", got[i].Country)
	}
}

func TestNewCode(t *testing.T) {
	code := NewCode()
	assert.Len(t, code, CodeLength)
	assert.Regexp(t, `^[0-9a-f]{8}$`, code)
	assert.Equal(t, TokenShortCode, Classify(code))
	assert.NotEqual(t, code, NewCode())
}

func TestCodec_RoundTrip(t *testing.T) {
	store := testutil.NewMockShareStore()
	codec := NewCodec(store, nil)
	ctx := context.Background()

	entries := sampleEntries()
	code, err := codec.Encode(ctx, entries)
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)

	payload, ok := store.Payload(code)
	require.True(t, ok)
	require.Len(t, payload, 3)
	assert.Equal(t, models.SharedLocation{
		Name: "Philadelphia", Admin1: "Pennsylvania",
		Latitude: 39.95233, Longitude: -75.16379, Timezone: "America/New_York",
	}, payload[0])

	decoded := codec.Decode(ctx, code)
	assertSamePlaces(t, entries, decoded)

	again := codec.Decode(ctx, code)
	require.Len(t, again, 3)
	assert.NotEqual(t, decoded[0].ID, again[0].ID)
}

func TestCodec_RoundTripSQLite(t *testing.T) {
	store, err := storage.NewSQLiteStore(t.TempDir()+"/shares.db", nil)
	require.NoError(t, err)
	defer store.Close()

	codec := NewCodec(store, nil)
	ctx := context.Background()

	code, err := codec.Encode(ctx, sampleEntries())
	require.NoError(t, err)
	assertSamePlaces(t, sampleEntries(), codec.Decode(ctx, code))
}

func TestCodec_EncodeFailure(t *testing.T) {
	store := testutil.NewMockShareStore()
	store.PutErr = testutil.ErrMockFailure
	codec := NewCodec(store, nil)

	code, err := codec.Encode(context.Background(), sampleEntries())
	assert.Empty(t, code)

	var createErr *CreateFailedError
	require.ErrorAs(t, err, &createErr)
	assert.ErrorIs(t, err, testutil.ErrMockFailure)
	assert.Len(t, store.PutCalls, 1, "no retry on failure")
}

func TestCodec_EncodeCollision(t *testing.T) {
	store := testutil.NewMockShareStore()
	store.Seed("deadbeef", nil)
	codec := NewCodec(store, nil)
	codec.newCode = func() string { return "deadbeef" }

	_, err := codec.Encode(context.Background(), sampleEntries())

	var createErr *CreateFailedError
	require.ErrorAs(t, err, &createErr)
	assert.ErrorIs(t, err, storage.ErrShareExists)
}

func TestCodec_DecodeShortCode(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		codec := NewCodec(testutil.NewMockShareStore(), nil)
		got := codec.Decode(ctx, "abc123XY")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store error", func(t *testing.T) {
		store := testutil.NewMockShareStore()
		store.GetErr = testutil.ErrMockFailure
		codec := NewCodec(store, nil)
		assert.Empty(t, codec.Decode(ctx, "abc123XY"))
	})

	t.Run("empty payload", func(t *testing.T) {
		store := testutil.NewMockShareStore()
		store.Seed("empty000", []models.SharedLocation{})
		codec := NewCodec(store, nil)
		assert.Empty(t, codec.Decode(ctx, "empty000"))
	})

	t.Run("defaults missing timezone", func(t *testing.T) {
		store := testutil.NewMockShareStore()
		store.Seed("nozone00", []models.SharedLocation{{Name: "Oslo", Latitude: 59.91, Longitude: 10.75}})
		codec := NewCodec(store, nil)

		got := codec.Decode(ctx, "nozone00")
		require.Len(t, got, 1)
		assert.Equal(t, "auto", got[0].Timezone)
		assert.Equal(t, "", got[0].Admin1)
		assert.Equal(t, "", got[0].Country)
	})
}

func TestCodec_DecodeLegacyToken(t *testing.T) {
	store := testutil.NewMockShareStore()
	codec := NewCodec(store, nil)

	got := codec.Decode(context.Background(), "40.0~-75.0~Philly")
	require.Len(t, got, 1)
	assert.Equal(t, 40.0, got[0].Latitude)
	assert.Equal(t, -75.0, got[0].Longitude)
	assert.Equal(t, "Philly", got[0].Name)
	assert.Equal(t, "", got[0].Admin1)
	assert.Equal(t, "auto", got[0].Timezone)
	assert.Empty(t, store.GetCalls, "legacy tokens never hit the store")
}
