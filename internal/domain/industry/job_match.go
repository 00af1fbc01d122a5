package industry

import (
	"fmt"
	"time"
)

// JobStatus mirrors the states the game's job feed reports.
type JobStatus string

const (
	JobStatusActive    JobStatus = "ACTIVE"
	JobStatusPaused    JobStatus = "PAUSED"
	JobStatusReady     JobStatus = "READY"
	JobStatusDelivered JobStatus = "DELIVERED"
	JobStatusCancelled JobStatus = "CANCELLED"
)

// IsTerminal reports whether the job can no longer change.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDelivered || s == JobStatusCancelled
}

// JobMatch links one externally observed production job to a plan step.
// An external job id is linked to at most one step system-wide.
//
// When linking changed the step's assumed facility, the previously planned
// facility name and material bonus are snapshotted here so the correction
// stays auditable after the step has been recalculated.
type JobMatch struct {
	id            string
	externalJobID int64
	blueprintID   int64
	runs          int64
	cost          float64
	status        JobStatus
	startDate     *time.Time
	endDate       *time.Time
	facilityID    *int64
	characterName string

	plannedFacilityName  string
	plannedMaterialBonus float64
	facilityCorrected    bool
}

// NewJobMatch creates a match from an observed external job.
func NewJobMatch(
	id string,
	externalJobID int64,
	blueprintID int64,
	runs int64,
	cost float64,
	status JobStatus,
	startDate *time.Time,
	endDate *time.Time,
	facilityID *int64,
	characterName string,
) *JobMatch {
	return &JobMatch{
		id:            id,
		externalJobID: externalJobID,
		blueprintID:   blueprintID,
		runs:          runs,
		cost:          cost,
		status:        status,
		startDate:     startDate,
		endDate:       endDate,
		facilityID:    facilityID,
		characterName: characterName,
	}
}

// Getters

func (m *JobMatch) ID() string                   { return m.id }
func (m *JobMatch) ExternalJobID() int64         { return m.externalJobID }
func (m *JobMatch) BlueprintID() int64           { return m.blueprintID }
func (m *JobMatch) Runs() int64                  { return m.runs }
func (m *JobMatch) Cost() float64                { return m.cost }
func (m *JobMatch) Status() JobStatus            { return m.status }
func (m *JobMatch) StartDate() *time.Time        { return m.startDate }
func (m *JobMatch) EndDate() *time.Time          { return m.endDate }
func (m *JobMatch) FacilityID() *int64           { return m.facilityID }
func (m *JobMatch) CharacterName() string        { return m.characterName }
func (m *JobMatch) PlannedFacilityName() string  { return m.plannedFacilityName }
func (m *JobMatch) PlannedMaterialBonus() float64 { return m.plannedMaterialBonus }
func (m *JobMatch) FacilityCorrected() bool      { return m.facilityCorrected }

// SnapshotPlannedFacility records what the plan assumed before the matcher
// corrected the step to the observed facility.
func (m *JobMatch) SnapshotPlannedFacility(name string, materialBonus float64) {
	m.plannedFacilityName = name
	m.plannedMaterialBonus = materialBonus
	m.facilityCorrected = true
}

// RestoreFacilitySnapshot rehydrates snapshot fields from persistence.
func (m *JobMatch) RestoreFacilitySnapshot(name string, materialBonus float64, corrected bool) {
	m.plannedFacilityName = name
	m.plannedMaterialBonus = materialBonus
	m.facilityCorrected = corrected
}

func (m *JobMatch) String() string {
	return fmt.Sprintf("JobMatch[job=%d, runs=%d, status=%s, character=%s]",
		m.externalJobID, m.runs, m.status, m.characterName)
}
