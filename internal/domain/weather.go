package domain

import (
	"sort"

	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
)

// Weather dataset column names.
const (
	colMonth         = "month"
	colPrecipitation = "precipitation_sum"
	colMaxTemp       = "temperature_2m_max"
)

// WeatherRecordFromRaw builds a WeatherRecord from one raw row. It reports
// false when either numeric column is not a finite number.
func WeatherRecordFromRaw(r csvtable.RawRecord) (WeatherRecord, bool) {
	precip, ok := parseFinite(r[colPrecipitation])
	if !ok {
		return WeatherRecord{}, false
	}
	tmax, ok := parseFinite(r[colMaxTemp])
	if !ok {
		return WeatherRecord{}, false
	}
	return WeatherRecord{
		Month:           normalizeMonth(r[colMonth]),
		PrecipitationMM: precip,
		MaxTempC:        tmax,
	}, true
}

// NormalizeWeather converts raw rows to weather records sorted ascending by
// month. Rows that fail numeric validation are dropped.
func NormalizeWeather(rows []csvtable.RawRecord) []WeatherRecord {
	out := make([]WeatherRecord, 0, len(rows))
	for _, r := range rows {
		if rec, ok := WeatherRecordFromRaw(r); ok {
			out = append(out, rec)
		}
	}
	// Zero-padded YYYY-MM sorts correctly as a string.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}
