package domain

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/riverflow-etl/internal/csvtable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHypsometry(t *testing.T) {
	table := csvtable.Parse("rgi_id,area_km2,100,200\n" +
		"RGI2000-v7.0-G-14-00001,10,5,5\n" +
		"RGI2000-v7.0-G-14-00002,20,5,15\n")

	curve := ComputeHypsometry(table)

	require.Len(t, curve.Bins, 2)
	assert.Equal(t, 100, curve.Bins[0].ElevationM)
	assert.InDelta(t, 10, curve.Bins[0].AreaKm2, 1e-9)
	assert.InDelta(t, 33.33, curve.Bins[0].AreaPct, 0.01)
	assert.Equal(t, 200, curve.Bins[1].ElevationM)
	assert.InDelta(t, 20, curve.Bins[1].AreaKm2, 1e-9)
	assert.InDelta(t, 66.67, curve.Bins[1].AreaPct, 0.01)

	assert.Equal(t, 2, curve.GlacierCount)
	assert.InDelta(t, 30, curve.TotalAreaKm2, 1e-9)
	assert.InDelta(t, 15, curve.MeanAreaKm2, 1e-9)
}

func TestComputeHypsometry_PercentagesSumTo100(t *testing.T) {
	table := csvtable.Parse("rgi_id,area_km2,o1region,4650,4600,4700,4550\n" +
		"g1,1.2,14,0.2,0.4,0.1,0.5\n" +
		"g2,3.0,14,1.0,1.0,0.5,0.5\n" +
		"g3,0.8,14,0,0.8,,\n")

	curve := ComputeHypsometry(table)

	require.Len(t, curve.Bins, 4)
	var sum float64
	for i, b := range curve.Bins {
		sum += b.AreaPct
		if i > 0 {
			assert.Less(t, curve.Bins[i-1].ElevationM, b.ElevationM)
		}
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.Equal(t, 4550, curve.Bins[0].ElevationM)
}

func TestComputeHypsometry_ZeroTotalArea(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		curve := ComputeHypsometry(csvtable.Parse("rgi_id,area_km2,2300,2350\n"))

		require.Len(t, curve.Bins, 2)
		for _, b := range curve.Bins {
			assert.Zero(t, b.AreaPct)
			assert.Zero(t, b.AreaKm2)
		}
		assert.Zero(t, curve.GlacierCount)
		assert.Zero(t, curve.MeanAreaKm2)
	})

	t.Run("blank area column", func(t *testing.T) {
		curve := ComputeHypsometry(csvtable.Parse("rgi_id,area_km2,2300\ng1,,4\n"))

		require.Len(t, curve.Bins, 1)
		assert.InDelta(t, 4, curve.Bins[0].AreaKm2, 1e-9)
		assert.Zero(t, curve.Bins[0].AreaPct)
	})

	t.Run("empty input", func(t *testing.T) {
		curve := ComputeHypsometry(csvtable.Parse(""))
		assert.Empty(t, curve.Bins)
	})
}

func TestComputeHypsometry_OverflowingSums(t *testing.T) {
	curve := ComputeHypsometry(csvtable.Parse("rgi_id,area_km2,4000,5000\n" +
		"g1,1e308,1e308,1\n" +
		"g2,1e308,1e308,1\n"))

	require.Len(t, curve.Bins, 2)
	assert.Zero(t, curve.Bins[0].AreaKm2)
	assert.Zero(t, curve.Bins[0].AreaPct)
	assert.InDelta(t, 2, curve.Bins[1].AreaKm2, 1e-9)
	assert.Zero(t, curve.Bins[1].AreaPct)
	assert.Zero(t, curve.TotalAreaKm2)
	assert.Zero(t, curve.MeanAreaKm2)

	_, err := json.Marshal(curve)
	require.NoError(t, err)
}

func TestElevationColumns(t *testing.T) {
	cols := elevationColumns([]string{"rgi_id", "area_km2", "2300", "2350.0", "2300", "", "1e3", "NaN"})

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	assert.Equal(t, []string{"2300", "2350.0", "1e3"}, names)
	assert.Equal(t, 2350, cols[1].elevation)
	assert.Equal(t, 1000, cols[2].elevation)
}
