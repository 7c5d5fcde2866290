// Package models contains domain types for the weather tiles backend.
package models

import "github.com/google/uuid"

// TimezoneAuto tells the forecast provider to resolve the timezone from coordinates.
const TimezoneAuto = "auto"

// LocationEntry represents a place the user tracks as a tile.
type LocationEntry struct {
	ID        string  `json:"id" yaml:"id"` // local only, never shared
	Name      string  `json:"name" yaml:"name"`
	Admin1    string  `json:"admin1" yaml:"admin1"`
	Country   string  `json:"country" yaml:"country"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Timezone  string  `json:"timezone" yaml:"timezone"`
}

// SamePlace reports whether both entries point at the exact same coordinates.
// IDs and names are ignored.
func (e LocationEntry) SamePlace(other LocationEntry) bool {
	return e.Latitude == other.Latitude && e.Longitude == other.Longitude
}

// ToShared strips the local-only fields from the entry.
func (e LocationEntry) ToShared() SharedLocation {
	return SharedLocation{
		Name:      e.Name,
		Admin1:    e.Admin1,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Timezone:  e.Timezone,
	}
}

// SearchCandidate is a geocoding result that has not been selected yet.
type SearchCandidate struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Select turns the candidate into a tracked entry with a fresh ID.
func (c SearchCandidate) Select() LocationEntry {
	return LocationEntry{
		ID:        NewID(),
		Name:      c.Name,
		Admin1:    c.Admin1,
		Country:   c.Country,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Timezone:  defaultTimezone(c.Timezone),
	}
}

// SharedLocation is one row of a stored share payload.
type SharedLocation struct {
	Name      string  `json:"name" msgpack:"name" dynamodbav:"name"`
	Admin1    string  `json:"admin1" msgpack:"admin1" dynamodbav:"admin1"`
	Latitude  float64 `json:"latitude" msgpack:"latitude" dynamodbav:"latitude"`
	Longitude float64 `json:"longitude" msgpack:"longitude" dynamodbav:"longitude"`
	Timezone  string  `json:"timezone" msgpack:"timezone" dynamodbav:"timezone"`
}

// ToEntry rebuilds a tracked entry from a stored row. Country was never shared.
func (s SharedLocation) ToEntry() LocationEntry {
	return NewLocationEntry(s.Name, s.Admin1, "", s.Latitude, s.Longitude, s.Timezone)
}

// NewLocationEntry builds an entry with a fresh ID and every optional field defaulted.
func NewLocationEntry(name, admin1, country string, lat, lon float64, timezone string) LocationEntry {
	return LocationEntry{
		ID:        NewID(),
		Name:      name,
		Admin1:    admin1,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
		Timezone:  defaultTimezone(timezone),
	}
}

// NewID mints a random entry identifier.
func NewID() string {
	return uuid.New().String()
}

func defaultTimezone(tz string) string {
	if tz == "" {
		return TimezoneAuto
	}
	return tz
}
