package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"electionwatch/models"
)

// MaxSessionAge is advisory. Expired sessions keep working until the
// caller decides to act on IsExpired.
const MaxSessionAge = 30 * time.Minute

// MaxStationCacheAge bounds how stale a cached station snapshot may be
// before StationsCached refuses to serve it.
const MaxStationCacheAge = 5 * time.Minute

// IssueRecord is a locally filed issue. The station is a free-text name,
// not a reference, so records survive station deletion.
type IssueRecord struct {
	ID          string    `json:"id"`
	Station     string    `json:"station"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// ObservationRecord is a locally filed observation.
type ObservationRecord struct {
	ID        string    `json:"id"`
	Station   string    `json:"station"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

type state struct {
	User         *models.User            `json:"user,omitempty"`
	Token        string                  `json:"token,omitempty"`
	SessionStart time.Time               `json:"sessionStart"`
	Config       map[string]string       `json:"config,omitempty"`
	Issues       []IssueRecord           `json:"issues,omitempty"`
	Observations []ObservationRecord     `json:"observations,omitempty"`
	Stations     []models.PollingStation `json:"stations,omitempty"`
	StationsAt   time.Time               `json:"stationsAt"`
}

// Store holds session state for one client process. All methods are
// safe for concurrent use. When a path is set the state is written back
// to disk on every mutation, so a restarted client resumes where it
// left off.
type Store struct {
	mu    sync.RWMutex
	path  string
	state state
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{state: state{Config: make(map[string]string)}}
}

// Open loads a store from path, creating an empty one if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	s := NewStore()
	s.path = path
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, err
	}
	if s.state.Config == nil {
		s.state.Config = make(map[string]string)
	}
	return s, nil
}

// persist must be called with mu held.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Begin starts a session for user with the issued token.
func (s *Store) Begin(user *models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	s.state.Token = token
	s.state.SessionStart = time.Now()
	return s.persist()
}

// End clears the logged-in user and token. Local records are kept.
func (s *Store) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	s.state.Token = ""
	s.state.SessionStart = time.Time{}
	return s.persist()
}

// CurrentUser returns the logged-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// Token returns the stored bearer token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// SessionAge returns how long the current session has been active.
func (s *Store) SessionAge() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.SessionStart.IsZero() {
		return 0
	}
	return time.Since(s.state.SessionStart)
}

// IsExpired reports whether the session has exceeded MaxSessionAge.
// Nothing enforces this; callers choose whether to re-authenticate.
func (s *Store) IsExpired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.SessionStart.IsZero() {
		return false
	}
	return time.Since(s.state.SessionStart) > MaxSessionAge
}

// SetConfig stores a per-role configuration value.
func (s *Store) SetConfig(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Config[key] = value
	return s.persist()
}

// Config returns a stored configuration value.
func (s *Store) Config(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state.Config[key]
	return v, ok
}

// AddIssue records a locally filed issue and returns it with an id and
// timestamp assigned.
func (s *Store) AddIssue(issue IssueRecord) (IssueRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	if issue.Timestamp.IsZero() {
		issue.Timestamp = time.Now()
	}
	if issue.Status == "" {
		issue.Status = models.StatusReported
	}
	s.state.Issues = append(s.state.Issues, issue)
	return issue, s.persist()
}

// Issues returns a copy of the locally filed issues.
func (s *Store) Issues() []IssueRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]IssueRecord, len(s.state.Issues))
	copy(out, s.state.Issues)
	return out
}

// AddObservation records a locally filed observation.
func (s *Store) AddObservation(obs ObservationRecord) (ObservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obs.ID == "" {
		obs.ID = uuid.New().String()
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = time.Now()
	}
	s.state.Observations = append(s.state.Observations, obs)
	return obs, s.persist()
}

// Observations returns a copy of the locally filed observations.
func (s *Store) Observations() []ObservationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ObservationRecord, len(s.state.Observations))
	copy(out, s.state.Observations)
	return out
}

// CacheStations stores a station snapshot with the current time.
func (s *Store) CacheStations(stations []models.PollingStation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Stations = make([]models.PollingStation, len(stations))
	copy(s.state.Stations, stations)
	s.state.StationsAt = time.Now()
	return s.persist()
}

// StationsCached returns the cached snapshot when it is younger than
// MaxStationCacheAge. The second return is false when the cache is
// empty or too stale to serve.
func (s *Store) StationsCached() ([]models.PollingStation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.state.Stations) == 0 || time.Since(s.state.StationsAt) > MaxStationCacheAge {
		return nil, false
	}
	out := make([]models.PollingStation, len(s.state.Stations))
	copy(out, s.state.Stations)
	return out, true
}
