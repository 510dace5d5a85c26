package domain

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// StepStatus is a wizard step's progression state.
type StepStatus string

const (
	StepUpcoming StepStatus = "upcoming"
	StepCurrent  StepStatus = "current"
	StepComplete StepStatus = "complete"
)

// WizardStep is one stage of the import wizard.
type WizardStep struct {
	Name     string     `json:"name"`
	Position int        `json:"position"`
	Status   StepStatus `json:"status"`
}

// Canonical step names, in order.
const (
	StepDownloadTemplate = "download_template"
	StepUpload           = "upload"
	StepValidate         = "validate"
	StepInvite           = "invite"
)

// Summary aggregates row classifications after validation.
type Summary struct {
	Empty   bool `json:"empty"`
	Total   int  `json:"total"`
	Valid   int  `json:"valid"`
	Invalid int  `json:"invalid"`
	Skipped int  `json:"skipped"`
}

// ImportSession holds one wizard run's rows and step state. Sessions are
// kept in a TTL store and discarded, never persisted. The store hands the
// same pointer to every request, so rows and steps may only be touched while
// holding the session lock.
type ImportSession struct {
	mu sync.Mutex

	ID        string       `json:"id"`
	OrgID     snowflake.ID `json:"org_id"`
	FileName  string       `json:"file_name"`
	Rows      []*ImportRow `json:"rows"`
	Steps     []WizardStep `json:"steps"`
	Summary   Summary      `json:"summary"`
	CreatedAt time.Time    `json:"created_at"`
}

// Lock serializes access to the session's rows and steps.
func (s *ImportSession) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *ImportSession) Unlock() { s.mu.Unlock() }

// Snapshot returns a deep copy of the session for serialization, so readers
// never observe a sweep mid-write. The caller must hold the session lock.
func (s *ImportSession) Snapshot() *ImportSession {
	rows := make([]*ImportRow, 0, len(s.Rows))
	for _, row := range s.Rows {
		copied := *row
		rows = append(rows, &copied)
	}
	steps := make([]WizardStep, len(s.Steps))
	copy(steps, s.Steps)

	return &ImportSession{
		ID:        s.ID,
		OrgID:     s.OrgID,
		FileName:  s.FileName,
		Rows:      rows,
		Steps:     steps,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
	}
}
