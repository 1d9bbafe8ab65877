// Package livemap renders polling stations as a GeoJSON overlay and keeps
// it fresh with a periodic refresh poll.
package livemap

import (
	geojson "github.com/paulmach/go.geojson"

	"electionwatch/models"
)

// Marker colors by crowd level.
const (
	ColorLow    = "#10b981" // green
	ColorMedium = "#f59e0b" // amber
	ColorHigh   = "#ef4444" // red
	ColorNone   = "#666666"
)

// MarkerColor maps a crowd level to its marker color.
func MarkerColor(level string) string {
	switch level {
	case models.CrowdLow:
		return ColorLow
	case models.CrowdMedium:
		return ColorMedium
	case models.CrowdHigh:
		return ColorHigh
	}
	return ColorNone
}

// FeatureCollection converts stations into a GeoJSON FeatureCollection.
// Stations without coordinates are skipped; they cannot be placed on a map.
func FeatureCollection(stations []models.PollingStation) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range stations {
		loc := s.Location
		if loc.Latitude == nil || loc.Longitude == nil {
			continue
		}
		f := geojson.NewPointFeature([]float64{*loc.Longitude, *loc.Latitude})
		f.ID = s.ID
		f.SetProperty("name", s.Name)
		f.SetProperty("address", loc.Address)
		f.SetProperty("capacity", s.Capacity)
		f.SetProperty("crowdLevel", s.CurrentCrowdLevel)
		f.SetProperty("markerColor", MarkerColor(s.CurrentCrowdLevel))
		f.SetProperty("isOpen", s.IsOpen)
		f.SetProperty("votersTurnout", s.VotersTurnout)
		if s.LastCrowdLevelUpdate != nil {
			f.SetProperty("lastCrowdLevelUpdate", s.LastCrowdLevelUpdate)
		}
		fc.AddFeature(f)
	}
	return fc
}
