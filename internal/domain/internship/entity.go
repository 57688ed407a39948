package internship

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type WorkMode string

const (
	WorkModeUnknown WorkMode = ""
	WorkModeRemote  WorkMode = "remote"
	WorkModeOnSite  WorkMode = "on-site"
	WorkModeHybrid  WorkMode = "hybrid"
)

// ParseWorkMode normalizes the spellings seen in listing data. Unrecognized
// values map to WorkModeUnknown.
func ParseWorkMode(s string) WorkMode {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "remote", "wfh", "work-from-home":
		return WorkModeRemote
	case "on-site", "onsite", "in-office", "office":
		return WorkModeOnSite
	case "hybrid":
		return WorkModeHybrid
	default:
		return WorkModeUnknown
	}
}

func (m WorkMode) Valid() bool {
	return m == WorkModeRemote || m == WorkModeOnSite || m == WorkModeHybrid
}

func (m *WorkMode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*m = WorkModeUnknown
		return nil
	}
	*m = ParseWorkMode(s)
	return nil
}

// Location is either free text or a structured city/state pair. Both shapes
// appear in listing data, so JSON accepts a string or an object.
type Location struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

func (l Location) String() string {
	if l.Raw != "" {
		return l.Raw
	}
	city := strings.TrimSpace(l.City)
	state := strings.TrimSpace(l.State)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

func (l Location) IsZero() bool {
	return l.String() == ""
}

func (l *Location) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Location{Raw: strings.TrimSpace(s)}
		return nil
	}
	var obj struct {
		City  string `json:"city"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*l = Location{City: strings.TrimSpace(obj.City), State: strings.TrimSpace(obj.State)}
	return nil
}

func (l Location) MarshalJSON() ([]byte, error) {
	if l.Raw != "" || (l.City == "" && l.State == "") {
		return json.Marshal(l.Raw)
	}
	return json.Marshal(struct {
		City  string `json:"city,omitempty"`
		State string `json:"state,omitempty"`
	}{City: l.City, State: l.State})
}

// Internship is a read-only listing record. Nothing downstream of the catalog
// mutates one; slices inside are shared between snapshots.
type Internship struct {
	ID          uuid.UUID  `json:"id"`
	SourceKey   string     `json:"source_key,omitempty"`
	Title       string     `json:"title"`
	Role        string     `json:"role,omitempty"`
	Company     string     `json:"company"`
	Location    Location   `json:"location"`
	Stipend     string     `json:"stipend,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	SectorTags  []string   `json:"sector_tags,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	WorkMode    WorkMode   `json:"work_mode,omitempty"`
	Description string     `json:"description,omitempty"`
	ApplyURL    string     `json:"apply_url,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	RecruiterID *uuid.UUID `json:"recruiter_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
