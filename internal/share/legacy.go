package share

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tilewx/backend/internal/models"
)

const (
	segmentSep = "!"
	fieldSep   = "~"
)

var errBadCoordinate = errors.New("bad coordinate")

// DecodeLegacy parses an inline token of the form
//
//	lat~lon[~name[~admin1[~tz]]]!lat~lon...
//
// Segments missing lat or lon are skipped. A coordinate that does not parse
// as a finite number makes the whole token unreadable and yields an empty list.
func DecodeLegacy(token string) []models.LocationEntry {
	entries, err := parseLegacy(token)
	if err != nil {
		return []models.LocationEntry{}
	}
	return entries
}

func parseLegacy(token string) ([]models.LocationEntry, error) {
	entries := []models.LocationEntry{}
	for _, segment := range strings.Split(token, segmentSep) {
		fields := strings.Split(segment, fieldSep)
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			continue
		}

		lat, err := parseCoordinate(fields[0])
		if err != nil {
			return nil, err
		}
		lon, err := parseCoordinate(fields[1])
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.NewLocationEntry(
			field(fields, 2),
			field(fields, 3),
			"",
			lat,
			lon,
			DecodeTimezone(field(fields, 4)),
		))
	}
	return entries, nil
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadCoordinate, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errBadCoordinate, s)
	}
	return v, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// EncodeLegacy writes entries in the inline format. Table timezones are
// shortened to their index, separators are stripped from text fields and
// trailing empty fields are left off. Entries with non-finite coordinates are
// skipped since they could not be read back.
func EncodeLegacy(entries []models.LocationEntry) string {
	segments := make([]string, 0, len(entries))
	for _, e := range entries {
		if math.IsNaN(e.Latitude) || math.IsInf(e.Latitude, 0) ||
			math.IsNaN(e.Longitude) || math.IsInf(e.Longitude, 0) {
			continue
		}

		fields := []string{
			strconv.FormatFloat(e.Latitude, 'f', -1, 64),
			strconv.FormatFloat(e.Longitude, 'f', -1, 64),
			stripSeparators(e.Name),
			stripSeparators(e.Admin1),
			stripSeparators(encodeTimezone(e.Timezone)),
		}
		for len(fields) > 2 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}
		segments = append(segments, strings.Join(fields, fieldSep))
	}
	return strings.Join(segments, segmentSep)
}

var separatorStripper = strings.NewReplacer(fieldSep, "", segmentSep, "")

func stripSeparators(s string) string {
	return separatorStripper.Replace(s)
}
