package domain

import "time"

// Dataset identifies one of the loadable datasets or derived summaries.
type Dataset string

const (
	DatasetWeather     Dataset = "weather"
	DatasetFlood       Dataset = "flood"
	DatasetFloodBySoil Dataset = "flood_by_soil"
	DatasetHypsometry  Dataset = "hypsometry"
)

// WeatherRecord is one month of Delhi weather.
type WeatherRecord struct {
	Month           string  `json:"month"` // YYYY-MM
	PrecipitationMM float64 `json:"precipitation_mm"`
	MaxTempC        float64 `json:"max_temp_c"`
}

// FloodRecord is one observation from the flood-risk dataset.
type FloodRecord struct {
	DischargeM3s  float64 `json:"discharge_m3s"`
	WaterLevelM   float64 `json:"water_level_m"`
	SoilType      string  `json:"soil_type"`
	FloodOccurred bool    `json:"flood_occurred"`

	// Descriptive fields; zero when absent or unparseable.
	RainfallMM   float64 `json:"rainfall_mm,omitempty"`
	TemperatureC float64 `json:"temperature_c,omitempty"`
	HumidityPct  float64 `json:"humidity_pct,omitempty"`
	LandCover    string  `json:"land_cover,omitempty"`
}

// HypsometryBin is the summed glacier area inside one elevation band.
type HypsometryBin struct {
	ElevationM int     `json:"elevation_m"`
	AreaKm2    float64 `json:"area_km2"`
	AreaPct    float64 `json:"area_pct"`
}

// HypsometryCurve is the area-by-elevation distribution across all glaciers.
type HypsometryCurve struct {
	Bins         []HypsometryBin `json:"bins"`
	GlacierCount int             `json:"glacier_count"`
	TotalAreaKm2 float64         `json:"total_area_km2"`
	MeanAreaKm2  float64         `json:"mean_area_km2"`
}

// SoilFloodCount is the number of flood observations for one soil type.
type SoilFloodCount struct {
	Soil    string `json:"soil"`
	Floods  int    `json:"floods"`
	Records int    `json:"records"`
}

// FloodScatter partitions flood records for the discharge/water-level
// scatter plot.
type FloodScatter struct {
	Flood   []FloodRecord `json:"flood"`
	NoFlood []FloodRecord `json:"no_flood"`
}

// Status is the load state presented to consumers.
type Status string

const (
	StatusReady  Status = "ready"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Dashboard is the joint result of loading every dataset. When any load
// fails, Status is StatusFailed, Error holds the message and every dataset
// field is empty.
type Dashboard struct {
	Status       Status           `json:"status"`
	Error        string           `json:"error,omitempty"`
	LoadedAt     time.Time        `json:"loaded_at"`
	Weather      []WeatherRecord  `json:"weather"`
	Flood        []FloodRecord    `json:"flood"`
	FloodBySoil  []SoilFloodCount `json:"flood_by_soil"`
	FloodScatter FloodScatter     `json:"flood_scatter"`
	Hypsometry   HypsometryCurve  `json:"hypsometry"`
}

// Snapshot is a single dataset published to downstream consumers.
type Snapshot struct {
	Dataset  Dataset   `json:"dataset"`
	LoadedAt time.Time `json:"loaded_at"`
	Rows     int       `json:"rows"`
	Data     any       `json:"data"`
}

// Snapshots splits a ready dashboard into one snapshot per dataset.
func (d Dashboard) Snapshots() []Snapshot {
	if d.Status == StatusFailed {
		return nil
	}
	return []Snapshot{
		{Dataset: DatasetWeather, LoadedAt: d.LoadedAt, Rows: len(d.Weather), Data: d.Weather},
		{Dataset: DatasetFlood, LoadedAt: d.LoadedAt, Rows: len(d.Flood), Data: d.Flood},
		{Dataset: DatasetFloodBySoil, LoadedAt: d.LoadedAt, Rows: len(d.FloodBySoil), Data: d.FloodBySoil},
		{Dataset: DatasetHypsometry, LoadedAt: d.LoadedAt, Rows: len(d.Hypsometry.Bins), Data: d.Hypsometry},
	}
}
