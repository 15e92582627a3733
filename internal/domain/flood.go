package domain

import (
	"strings"

	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
)

// Flood-risk column names, matched exactly as they appear in the source header.
const (
	colDischarge   = "River Discharge (m³/s)"
	colWaterLevel  = "Water Level (m)"
	colSoilType    = "Soil Type"
	colFlood       = "Flood Occurred"
	colRainfall    = "Rainfall (mm)"
	colTemperature = "Temperature (°C)"
	colHumidity    = "Humidity (%)"
	colLandCover   = "Land Cover"
)

// UnknownSoil is the soil type assigned to rows with a blank soil column.
const UnknownSoil = "Unknown"

// FloodRecordFromRaw builds a FloodRecord from one raw row. It reports false
// when discharge or water level is not a finite number.
func FloodRecordFromRaw(r csvtable.RawRecord) (FloodRecord, bool) {
	discharge, ok := parseFinite(r[colDischarge])
	if !ok {
		return FloodRecord{}, false
	}
	level, ok := parseFinite(r[colWaterLevel])
	if !ok {
		return FloodRecord{}, false
	}

	soil := strings.TrimSpace(r[colSoilType])
	if soil == "" {
		soil = UnknownSoil
	}

	return FloodRecord{
		DischargeM3s:  discharge,
		WaterLevelM:   level,
		SoilType:      soil,
		FloodOccurred: parseFloodFlag(r[colFlood]),
		RainfallMM:    parseFloatOrZero(r[colRainfall]),
		TemperatureC:  parseFloatOrZero(r[colTemperature]),
		HumidityPct:   parseFloatOrZero(r[colHumidity]),
		LandCover:     strings.TrimSpace(r[colLandCover]),
	}, true
}

// parseFloodFlag is true when the value is the string "1" or parses to the
// number 1 ("1.0", "01").
func parseFloodFlag(s string) bool {
	s = strings.TrimSpace(s)
	if s == "1" {
		return true
	}
	v, ok := parseFinite(s)
	return ok && v == 1
}

// NormalizeFlood converts raw rows to flood records in source order. Rows
// that fail numeric validation are dropped.
func NormalizeFlood(rows []csvtable.RawRecord) []FloodRecord {
	out := make([]FloodRecord, 0, len(rows))
	for _, r := range rows {
		if rec, ok := FloodRecordFromRaw(r); ok {
			out = append(out, rec)
		}
	}
	return out
}

// CapFloodRecords returns at most limit records. A limit of zero or less
// returns records unchanged.
func CapFloodRecords(records []FloodRecord, limit int) []FloodRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}
