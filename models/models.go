package models

import "time"

// Crowd levels for a polling station queue.
const (
	CrowdLow    = "low"
	CrowdMedium = "medium"
	CrowdHigh   = "high"
)

// Report types.
const (
	ReportTypeCrowdLevel   = "crowd_level"
	ReportTypeIssue        = "issue"
	ReportTypeObservation  = "observation"
	ReportTypeIrregularity = "irregularity"
)

// Report statuses.
const (
	StatusReported    = "reported"
	StatusUnderReview = "under_review"
	StatusResolved    = "resolved"
	StatusClosed      = "closed"
)

// User roles.
const (
	RoleCitizen  = "citizen"
	RoleAdmin    = "admin"
	RoleObserver = "observer"
	RoleAnalyst  = "analyst"
)

// ValidCrowdLevel reports whether level is one of the three enumerated values.
func ValidCrowdLevel(level string) bool {
	switch level {
	case CrowdLow, CrowdMedium, CrowdHigh:
		return true
	}
	return false
}

// User is a registered participant: citizen, admin, observer or analyst.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRef is the populated subset of a referenced user document.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Location is a station address with optional coordinates.
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// VotingHours is the open/close window of a station, as wall-clock strings.
type VotingHours struct {
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// PollingStation is a physical voting site.
type PollingStation struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Location             Location    `json:"location"`
	Capacity             int         `json:"capacity"`
	CurrentCrowdLevel    string      `json:"currentCrowdLevel"`
	VotingHours          VotingHours `json:"votingHours"`
	OfficialInCharge     *UserRef    `json:"officialInCharge,omitempty"`
	TotalVoters          int         `json:"totalVoters"`
	VotersTurnout        int         `json:"votersTurnout"`
	IsOpen               bool        `json:"isOpen"`
	LastCrowdLevelUpdate *time.Time  `json:"lastCrowdLevelUpdate,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// StationRef is the populated subset of a referenced station document.
type StationRef struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
}

// Report is a user-submitted event tied to exactly one polling station.
type Report struct {
	ID             string      `json:"id"`
	Reporter       *UserRef    `json:"reporter"`
	PollingStation *StationRef `json:"pollingStation"`
	Type           string      `json:"type"`
	Description    string      `json:"description"`
	Severity       string      `json:"severity"`
	Status         string      `json:"status"`
	CrowdLevel     string      `json:"crowdLevel,omitempty"`
	Attachments    []string    `json:"attachments,omitempty"`
	IsVerified     bool        `json:"isVerified"`
	VerifiedBy     *UserRef    `json:"verifiedBy,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
