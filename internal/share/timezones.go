package share

import (
	"strconv"

	"github.com/tilewx/backend/internal/models"
)

// legacyTimezones maps the indices embedded in legacy links to IANA names.
// Old links depend on every position: append only, never reorder or remove.
var legacyTimezones = [...]string{
	"Africa/Cairo",                   // 0
	"Africa/Johannesburg",            // 1
	"Africa/Lagos",                   // 2
	"Africa/Nairobi",                 // 3
	"America/Anchorage",              // 4
	"America/Argentina/Buenos_Aires", // 5
	"America/Bogota",                 // 6
	"America/Chicago",                // 7
	"America/Denver",                 // 8
	"America/Halifax",                // 9
	"America/Los_Angeles",            // 10
	"America/Mexico_City",            // 11
	"America/New_York",               // 12
	"America/Phoenix",                // 13
	"America/Santiago",               // 14
	"America/Sao_Paulo",              // 15
	"America/St_Johns",               // 16
	"America/Toronto",                // 17
	"America/Vancouver",              // 18
	"Asia/Bangkok",                   // 19
	"Asia/Dubai",                     // 20
	"Asia/Hong_Kong",                 // 21
	"Asia/Jakarta",                   // 22
	"Asia/Jerusalem",                 // 23
	"Asia/Karachi",                   // 24
	"Asia/Kolkata",                   // 25
	"Asia/Manila",                    // 26
	"Asia/Seoul",                     // 27
	"Asia/Shanghai",                  // 28
	"Asia/Singapore",                 // 29
	"Asia/Taipei",                    // 30
	"Asia/Tehran",                    // 31
	"Asia/Tokyo",                     // 32
	"Atlantic/Reykjavik",             // 33
	"Australia/Adelaide",             // 34
	"Australia/Brisbane",             // 35
	"Australia/Melbourne",            // 36
	"Australia/Perth",                // 37
	"Australia/Sydney",               // 38
	"Europe/Amsterdam",               // 39
	"Europe/Athens",                  // 40
	"Europe/Berlin",                  // 41
	"Europe/Istanbul",                // 42
	"Europe/London",                  // 43
	"Europe/Madrid",                  // 44
	"Europe/Moscow",                  // 45
	"Europe/Paris",                   // 46
	"Europe/Rome",                    // 47
	"Pacific/Auckland",               // 48
	"Pacific/Honolulu",               // 49
	"UTC",                            // 50
}

var timezoneIndexes = func() map[string]int {
	m := make(map[string]int, len(legacyTimezones))
	for i, name := range legacyTimezones {
		m[name] = i
	}
	return m
}()

// TimezoneCount is the number of entries in the legacy timezone table.
const TimezoneCount = len(legacyTimezones)

// TimezoneAt returns the table entry at index i.
func TimezoneAt(i int) (string, bool) {
	if i < 0 || i >= len(legacyTimezones) {
		return "", false
	}
	return legacyTimezones[i], true
}

// DecodeTimezone resolves the tz field of a legacy segment. A decimal index
// inside the table yields the table entry, an empty field yields "auto" and
// anything else is taken as a raw IANA name.
func DecodeTimezone(field string) string {
	if field == "" {
		return models.TimezoneAuto
	}
	if isDigits(field) {
		if i, err := strconv.Atoi(field); err == nil {
			if name, ok := TimezoneAt(i); ok {
				return name
			}
		}
	}
	return field
}

// encodeTimezone is the inverse of DecodeTimezone: table names shrink to
// their index, "auto" is dropped.
func encodeTimezone(tz string) string {
	if tz == "" || tz == models.TimezoneAuto {
		return ""
	}
	if i, ok := timezoneIndexes[tz]; ok {
		return strconv.Itoa(i)
	}
	return tz
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
