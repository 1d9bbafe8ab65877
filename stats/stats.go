// Package stats computes the derived dashboard statistics. Everything here
// is a pure function over collections already fetched; statistics are
// recomputed on every request, never cached.
package stats

import (
	"math"
	"math/rand"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/shopspring/decimal"

	"electionwatch/models"
)

// Observation is the severity/station pair the observer statistics operate
// on. Station is a display name, not a reference; severity "none" (or
// empty) marks a routine observation without an incident.
type Observation struct {
	Station   string
	Severity  string
	Timestamp time.Time
}

// IsIncident reports whether the observation carries a non-none severity.
func (o Observation) IsIncident() bool {
	return o.Severity != "" && o.Severity != "none"
}

// ObserverStats summarizes an observer's field work.
type ObserverStats struct {
	ObservationCount  int `json:"observationCount"`
	StationsMonitored int `json:"stationsMonitored"`
	IncidentsReported int `json:"incidentsReported"`
	ComplianceRate    int `json:"complianceRate"`
}

// ComputeObserverStats derives the observer dashboard numbers. The
// compliance rate is (monitored stations without incidents) over monitored
// stations, clamped at zero, as a rounded percentage. Zero monitored
// stations yield zero compliance.
func ComputeObserverStats(observations []Observation) ObserverStats {
	stations := make(map[string]bool)
	incidents := 0
	for _, o := range observations {
		stations[o.Station] = true
		if o.IsIncident() {
			incidents++
		}
	}

	compliance := 0
	if len(stations) > 0 {
		compliance = int(math.Round(float64(len(stations)-incidents) / float64(len(stations)) * 100))
		if compliance < 0 {
			compliance = 0
		}
	}

	return ObserverStats{
		ObservationCount:  len(observations),
		StationsMonitored: len(stations),
		IncidentsReported: incidents,
		ComplianceRate:    compliance,
	}
}

// StationCompliance is one row of the observer compliance table.
type StationCompliance struct {
	Station         string    `json:"station"`
	Compliant       bool      `json:"compliant"`
	LastObservation time.Time `json:"lastObservation"`
	Observations    int       `json:"observations"`
}

// ComplianceByStation groups observations per station and flags stations
// where any observation carries an incident severity.
func ComplianceByStation(observations []Observation) []StationCompliance {
	byStation := map[string]*StationCompliance{}
	order := []string{}
	for _, o := range observations {
		row, ok := byStation[o.Station]
		if !ok {
			row = &StationCompliance{Station: o.Station, Compliant: true}
			byStation[o.Station] = row
			order = append(order, o.Station)
		}
		row.Observations++
		if o.Timestamp.After(row.LastObservation) {
			row.LastObservation = o.Timestamp
		}
		if o.IsIncident() {
			row.Compliant = false
		}
	}

	rows := make([]StationCompliance, 0, len(order))
	for _, name := range order {
		rows = append(rows, *byStation[name])
	}
	return rows
}

// AdminStats summarizes the whole deployment for the admin dashboard.
type AdminStats struct {
	StationCount int    `json:"stationCount"`
	TotalVoters  int    `json:"totalVoters"`
	OpenIssues   int    `json:"openIssues"`
	SystemStatus string `json:"systemStatus"`
}

// ComputeAdminStats derives the admin dashboard numbers. The system is
// Operational iff no issues are open.
func ComputeAdminStats(stations []models.PollingStation, openIssues int) AdminStats {
	totalVoters := 0
	for _, s := range stations {
		totalVoters += s.TotalVoters
	}

	status := "Operational"
	if openIssues > 0 {
		status = "Attention Required"
	}

	return AdminStats{
		StationCount: len(stations),
		TotalVoters:  totalVoters,
		OpenIssues:   openIssues,
		SystemStatus: status,
	}
}

// AnalystStats carries the analyst headline figures. Vote totals and
// timings are simulated; only their shape and ranges are a contract, the
// anomaly count is real.
type AnalystStats struct {
	TotalVotes    int    `json:"totalVotes"`
	AvgVotingTime int    `json:"avgVotingTimeMinutes"`
	TurnoutRate   int    `json:"turnoutRate"`
	Anomalies     int    `json:"anomalies"`
	Simulated     bool   `json:"simulated"`
	GeneratedAt   string `json:"generatedAt"`
}

// StationAnalytics is one simulated row of the analyst per-station table.
type StationAnalytics struct {
	Station       string `json:"station"`
	TotalVoters   int    `json:"totalVoters"`
	VotesCounted  int    `json:"votesCounted"`
	Turnout       string `json:"turnout"`
	AvgTimeMins   int    `json:"avgTimeMinutes"`
	StationIssues int    `json:"issues"`
}

// Simulator produces the analyst dashboard's mock figures. It owns its
// random source so tests can seed it deterministically.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator seeded from seed.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// HeadlineStats simulates the analyst headline numbers. totalVoters bounds
// the turnout percentage; anomalies is the count of high-severity issues.
func (s *Simulator) HeadlineStats(totalVoters, anomalies int) AnalystStats {
	if totalVoters <= 0 {
		totalVoters = 50000
	}
	totalVotes := s.rng.Intn(50000) + 10000
	turnout := totalVotes * 100 / totalVoters
	if turnout > 100 {
		turnout = 100
	}

	return AnalystStats{
		TotalVotes:    totalVotes,
		AvgVotingTime: s.rng.Intn(15) + 3,
		TurnoutRate:   turnout,
		Anomalies:     anomalies,
		Simulated:     true,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// StationTable simulates the per-station analytics rows. Votes counted
// fall between 20% and 100% of capacity; turnout is votes over capacity as
// a percentage with two decimals.
func (s *Simulator) StationTable(stations []models.PollingStation, issuesByStation map[string]int) []StationAnalytics {
	rows := make([]StationAnalytics, 0, len(stations))
	for _, st := range stations {
		if st.Capacity <= 0 {
			continue
		}
		floor := st.Capacity / 5
		votes := floor + s.rng.Intn(st.Capacity-floor+1)
		turnout := decimal.NewFromInt(int64(votes)).
			Div(decimal.NewFromInt(int64(st.Capacity))).
			Mul(decimal.NewFromInt(100)).
			Round(2)

		rows = append(rows, StationAnalytics{
			Station:       st.Name,
			TotalVoters:   st.Capacity,
			VotesCounted:  votes,
			Turnout:       turnout.String() + "%",
			AvgTimeMins:   s.rng.Intn(12) + 3,
			StationIssues: issuesByStation[st.ID],
		})
	}
	return rows
}

// NearestStation returns the station closest to the given coordinates on
// the sphere, or nil when no station has coordinates.
func NearestStation(lat, lng float64, stations []models.PollingStation) *models.PollingStation {
	from := s2.LatLngFromDegrees(lat, lng)
	var nearest *models.PollingStation
	var best s1.Angle

	for i := range stations {
		loc := stations[i].Location
		if loc.Latitude == nil || loc.Longitude == nil {
			continue
		}
		to := s2.LatLngFromDegrees(*loc.Latitude, *loc.Longitude)
		d := from.Distance(to)
		if nearest == nil || d < best {
			nearest = &stations[i]
			best = d
		}
	}
	return nearest
}
