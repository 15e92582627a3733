package domain

import (
	"math"
	"sort"

	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
)

const colAreaKm2 = "area_km2"

// elevationColumn is a header naming an elevation band.
type elevationColumn struct {
	name      string
	elevation int
}

// elevationColumns returns every distinct header that parses entirely as a
// finite number. Elevations are rounded to whole metres.
func elevationColumns(header []string) []elevationColumn {
	seen := make(map[string]struct{}, len(header))
	cols := make([]elevationColumn, 0, len(header))
	for _, h := range header {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		v, ok := parseFinite(h)
		if !ok {
			continue
		}
		cols = append(cols, elevationColumn{name: h, elevation: int(math.Round(v))})
	}
	return cols
}

// ComputeHypsometry sums glacier area per elevation band across every row of
// the table and expresses each band as a share of the total glacier area.
// Unparseable cells count as zero. Bins are emitted for every elevation
// column, sorted ascending, even when the table has no rows.
func ComputeHypsometry(table csvtable.Table) HypsometryCurve {
	cols := elevationColumns(table.Header)

	var total float64
	sums := make(map[int]float64, len(cols))
	for _, c := range cols {
		sums[c.elevation] = 0
	}

	for _, r := range table.Records {
		total += parseFloatOrZero(r[colAreaKm2])
		for _, c := range cols {
			sums[c.elevation] += parseFloatOrZero(r[c.name])
		}
	}

	bins := make([]HypsometryBin, 0, len(sums))
	for elev, area := range sums {
		bins = append(bins, HypsometryBin{
			ElevationM: elev,
			AreaKm2:    finiteOrZero(area),
			AreaPct:    percentOf(area, total),
		})
	}
	sort.Slice(bins, func(i, j int) bool {
		return bins[i].ElevationM < bins[j].ElevationM
	})

	count := len(table.Records)
	total = finiteOrZero(total)
	return HypsometryCurve{
		Bins:         bins,
		GlacierCount: count,
		TotalAreaKm2: total,
		MeanAreaKm2:  round(total/float64(max(1, count)), 3),
	}
}

// percentOf returns part as a percentage of total, or 0 when either sum
// overflowed or total is not positive.
func percentOf(part, total float64) float64 {
	if total <= 0 || math.IsInf(total, 0) || math.IsInf(part, 0) {
		return 0
	}
	return finiteOrZero(part / total * 100)
}

// finiteOrZero maps NaN and ±Inf to 0 so results stay JSON-encodable.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
