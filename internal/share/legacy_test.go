package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilewx/backend/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		token string
		want  TokenKind
	}{
		{"abc123XY", TokenShortCode},
		{"deadbeef", TokenShortCode},
		{"40.0~-75.0~Philly", TokenLegacy},
		{"1~2!3~4", TokenLegacy},
		{"abc-123", TokenLegacy},
		{"", TokenLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.token))
		})
	}
	assert.Equal(t, "short_code", TokenShortCode.String())
	assert.Equal(t, "legacy", TokenLegacy.String())
}

func TestDecodeTimezone(t *testing.T) {
	assert.Equal(t, "Africa/Cairo", DecodeTimezone("0"))
	assert.Equal(t, "America/Anchorage", DecodeTimezone("4"))
	assert.Equal(t, "UTC", DecodeTimezone("50"))
	assert.Equal(t, "51", DecodeTimezone("51"), "out of range index is kept raw")
	assert.Equal(t, "-1", DecodeTimezone("-1"))
	assert.Equal(t, "Europe/Oslo", DecodeTimezone("Europe/Oslo"))
	assert.Equal(t, "auto", DecodeTimezone(""))
	assert.Equal(t, 51, TimezoneCount)
}

func TestDecodeLegacy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		got := DecodeLegacy("40.0~-75.0~Philly")
		require.Len(t, got, 1)
		assert.Equal(t, 40.0, got[0].Latitude)
		assert.Equal(t, -75.0, got[0].Longitude)
		assert.Equal(t, "Philly", got[0].Name)
		assert.Equal(t, "", got[0].Admin1)
		assert.Equal(t, "", got[0].Country)
		assert.Equal(t, "auto", got[0].Timezone)
		assert.NotEmpty(t, got[0].ID)
	})

	t.Run("timezone index", func(t *testing.T) {
		got := DecodeLegacy("1.0~2.0~A~PA~4")
		require.Len(t, got, 1)
		assert.Equal(t, "America/Anchorage", got[0].Timezone)
		assert.Equal(t, "PA", got[0].Admin1)
	})

	t.Run("raw timezone", func(t *testing.T) {
		got := DecodeLegacy("1~2~A~~Europe/Oslo")
		require.Len(t, got, 1)
		assert.Equal(t, "Europe/Oslo", got[0].Timezone)
		assert.Equal(t, "", got[0].Admin1)
	})

	t.Run("multiple segments", func(t *testing.T) {
		got := DecodeLegacy("1~2~A!3~4~B~Ohio~12")
		require.Len(t, got, 2)
		assert.Equal(t, "A", got[0].Name)
		assert.Equal(t, "B", got[1].Name)
		assert.Equal(t, "America/New_York", got[1].Timezone)
	})

	t.Run("coordinates only", func(t *testing.T) {
		got := DecodeLegacy("1.5~-2.5")
		require.Len(t, got, 1)
		assert.Equal(t, "", got[0].Name)
	})

	t.Run("segments without coordinates are skipped", func(t *testing.T) {
		got := DecodeLegacy("1~2~A!!~3~B!4~~C!5")
		require.Len(t, got, 1)
		assert.Equal(t, "A", got[0].Name)
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		got := DecodeLegacy("1~2~A~B~0~extra")
		require.Len(t, got, 1)
		assert.Equal(t, "Africa/Cairo", got[0].Timezone)
	})

	malformed := []string{
		"garbage~!!!not~numbers",
		"1~2~A!x~4~B",
		"NaN~1",
		"1~Inf",
		"abc~def",
	}
	for _, token := range malformed {
		t.Run("malformed "+token, func(t *testing.T) {
			got := DecodeLegacy(token)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	t.Run("empty token", func(t *testing.T) {
		assert.Empty(t, DecodeLegacy(""))
	})
}

func TestDecodeLegacy_FreshIDs(t *testing.T) {
	token := "1.0~2.0~A~PA~4!3~4~B"
	first := DecodeLegacy(token)
	second := DecodeLegacy(token)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	for i := range first {
		assert.True(t, first[i].SamePlace(second[i]))
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Admin1, second[i].Admin1)
		assert.Equal(t, first[i].Timezone, second[i].Timezone)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}
}

func TestEncodeLegacy(t *testing.T) {
	entries := []models.LocationEntry{
		models.NewLocationEntry("Philly", "", "United States", 40, -75, ""),
		models.NewLocationEntry("Anchorage", "Alaska", "", 61.21806, -149.90028, "America/Anchorage"),
		models.NewLocationEntry("Oslo~!", "", "", 59.91, 10.75, "Europe/Oslo"),
		models.NewLocationEntry("", "", "", 1, 2, "auto"),
	}

	token := EncodeLegacy(entries)
	assert.Equal(t, "40~-75~Philly!61.21806~-149.90028~Anchorage~Alaska~4!59.91~10.75~Oslo~~Europe/Oslo!1~2", token)
	assert.Equal(t, TokenLegacy, Classify(token))

	decoded := DecodeLegacy(token)
	require.Len(t, decoded, 4)
	assert.Equal(t, "America/Anchorage", decoded[1].Timezone)
	assert.Equal(t, "Oslo", decoded[2].Name)
	assert.Equal(t, "Europe/Oslo", decoded[2].Timezone)
	assert.Equal(t, "auto", decoded[3].Timezone)
	for i := range entries {
		assert.True(t, entries[i].SamePlace(decoded[i]))
	}
}
