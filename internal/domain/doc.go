// Package domain models the river-flow showcase datasets and the summaries
// the dashboard charts are drawn from.
//
// # Data Sources
//
// Three static CSV files are served from the dashboard's /data directory:
//
//	delhi_monthly_weather_2000_2024.csv
//	  month, precipitation_sum, temperature_2m_max
//	  One row per month. "month" is usually a full date ("2000-01-01") but may
//	  already be in "YYYY-MM" form.
//
//	flood_risk_dataset_india.csv
//	  Headers carry units and symbols and are matched verbatim:
//	  "River Discharge (m³/s)", "Water Level (m)", "Soil Type", "Flood Occurred",
//	  plus descriptive columns "Rainfall (mm)", "Temperature (°C)",
//	  "Humidity (%)", "Land Cover".
//
//	RGI2000-v7.0-G-14_south_asia_west-hypsometry.csv
//	  Randolph Glacier Inventory hypsometry. Metadata columns (rgi_id,
//	  area_km2, ...) followed by one column per 50 m elevation band whose
//	  header is the band elevation ("2300", "2350", ...) and whose cell is the
//	  glacier's area inside that band in km².
//
// # Normalization
//
// Each raw row is converted by a constructor returning (record, ok). Rows
// whose required numeric fields do not parse to finite numbers are dropped;
// optional descriptive fields fall back to zero. Nothing is coerced: a blank
// cell is a failed parse, not 0.
//
// # Aggregation
//
//	Flood by soil:  flood counts per soil type, stable-sorted descending,
//	                top 6. Ties keep first-seen order.
//	Hypsometry:     per-band area summed over all glaciers, expressed as a
//	                percentage of the summed glacier area. A zero total
//	                yields 0% bins rather than NaN.
package domain
