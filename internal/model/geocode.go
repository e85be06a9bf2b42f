package model

import (
	"math"
	"strings"
)

// Status is the outcome of resolving a single address.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "coordinates_not_found"

	// errorPrefix starts every failure status; the remainder is free text.
	errorPrefix = "error: "
)

// ErrorStatus builds an "error: <message>" status from err.
func ErrorStatus(err error) Status {
	if err == nil {
		return Status(errorPrefix + "unknown")
	}
	return Status(errorPrefix + err.Error())
}

// IsSuccess reports whether s is the success status.
func (s Status) IsSuccess() bool { return s == StatusSuccess }

// IsError reports whether s carries an error message.
func (s Status) IsError() bool { return strings.HasPrefix(string(s), errorPrefix) }

// GeocodeResult holds the coordinates found for one address. Build it through
// Success, NotFound or Failed so the status and coordinates always agree.
type GeocodeResult struct {
	Address   string   `csv:"address"`
	Latitude  *float64 `csv:"latitude"`
	Longitude *float64 `csv:"longitude"`
	Status    Status   `csv:"status"`
}

// Success returns a result carrying lat/lon. A non-finite coordinate cannot be
// plotted, so it degrades to a failed result.
func Success(address string, lat, lon float64) GeocodeResult {
	if !finite(lat) || !finite(lon) {
		return GeocodeResult{Address: address, Status: Status(errorPrefix + "non-finite coordinates")}
	}
	return GeocodeResult{
		Address:   address,
		Latitude:  &lat,
		Longitude: &lon,
		Status:    StatusSuccess,
	}
}

// NotFound returns a result for a page that loaded without coordinates.
func NotFound(address string) GeocodeResult {
	return GeocodeResult{Address: address, Status: StatusNotFound}
}

// Failed returns a result recording err in the status.
func Failed(address string, err error) GeocodeResult {
	return GeocodeResult{Address: address, Status: ErrorStatus(err)}
}

// HasCoordinates reports whether both coordinates are present and finite.
func (r GeocodeResult) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil && finite(*r.Latitude) && finite(*r.Longitude)
}

// Coordinates returns lat/lon and whether they are usable.
func (r GeocodeResult) Coordinates() (lat, lon float64, ok bool) {
	if !r.HasCoordinates() {
		return 0, 0, false
	}
	return *r.Latitude, *r.Longitude, true
}

// ResultSet is the ordered output of a batch, one entry per input address.
type ResultSet []GeocodeResult

// Summary counts outcomes in a ResultSet.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summary tallies success against everything else.
func (rs ResultSet) Summary() Summary {
	s := Summary{Total: len(rs)}
	for _, r := range rs {
		if r.Status.IsSuccess() {
			s.Succeeded++
		}
	}
	s.Failed = s.Total - s.Succeeded
	return s
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
