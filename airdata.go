package awair

import (
	"fmt"
	"time"
)

// Measurements maps sensor names to values. Known raw API names are renamed
// per sensorToAlias when the map is built, so a raw name never appears
// alongside its alias. Treat it as read-only after construction.
type Measurements map[string]float64

// component is the {comp, value} pair air-data rows use on the wire.
type component struct {
	Comp  string  `json:"comp"`
	Value float64 `json:"value"`
}

func newMeasurements(components []component) Measurements {
	measurements := make(Measurements, len(components))

	for _, entry := range components {
		name := entry.Comp
		if alias, ok := sensorToAlias[name]; ok {
			name = alias
		}
		measurements[name] = entry.Value
	}

	return measurements
}

// airDataRow is the wire shape of a single air-data reading, after the
// variant-specific response envelope has been stripped.
type airDataRow struct {
	Timestamp string      `json:"timestamp"`
	Score     float64     `json:"score"`
	Sensors   []component `json:"sensors"`
	Indices   []component `json:"indices"`
}

// AirData is one timestamped air-quality reading.
//
// Score is the aggregate 0-100 quality score. Sensors holds the raw sensor
// values; Indices holds the per-sensor quality indices, floats between -4
// and 4 where only the magnitude matters (closer to 0 is better). Not every
// sensor has a corresponding index.
type AirData struct {
	Timestamp time.Time    `json:"timestamp"`
	Score     float64      `json:"score"`
	Sensors   Measurements `json:"sensors"`
	Indices   Measurements `json:"indices"`
}

func newAirData(row airDataRow) (AirData, error) {
	timestamp, err := time.Parse(time.RFC3339Nano, row.Timestamp)
	if err != nil {
		return AirData{}, newError(ErrGeneric, fmt.Sprintf("failed to parse timestamp %q: %v", row.Timestamp, err))
	}

	return AirData{
		Timestamp: timestamp,
		Score:     row.Score,
		Sensors:   newMeasurements(row.Sensors),
		Indices:   newMeasurements(row.Indices),
	}, nil
}
