package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// MatchOutcomeKind classifies what the matcher decided for one job.
type MatchOutcomeKind string

const (
	// MatchLinked - the job was (or should be) linked to the step.
	MatchLinked MatchOutcomeKind = "LINKED"

	// MatchRunCountMismatch - blueprint matches but run counts disagree.
	// Recorded for user review, never silently absorbed into the plan.
	MatchRunCountMismatch MatchOutcomeKind = "RUN_COUNT_MISMATCH"

	// MatchNoCandidate - no eligible step runs this job's blueprint.
	MatchNoCandidate MatchOutcomeKind = "NO_CANDIDATE"
)

// MatchOutcome is the matcher's verdict for one external job.
type MatchOutcome struct {
	Job     industry.ExternalJob
	StepID  string
	Kind    MatchOutcomeKind
	Message string
}

// JobMatcher reconciles externally observed production jobs against plan
// steps. The pairing decision is a pure function over the two input lists;
// applying a decision (linking, facility correction, run adaptation) goes
// through the repositories and the recalculator.
type JobMatcher struct {
	projects     industry.ProjectRepository
	resolver     blueprint.BonusResolver
	recalculator *Recalculator
}

// NewJobMatcher creates a job matcher.
func NewJobMatcher(projects industry.ProjectRepository, resolver blueprint.BonusResolver, recalculator *Recalculator) *JobMatcher {
	return &JobMatcher{projects: projects, resolver: resolver, recalculator: recalculator}
}

// MatchSteps pairs jobs to steps without touching any state. Eligible steps
// run the job's blueprint with the job's activity kind and are neither
// purchased nor covered by stock. Precedence per step: exact run-count
// match, newest started first; jobs that only mismatch on run count are
// reported as MatchRunCountMismatch.
func MatchSteps(steps []*industry.PlanStep, jobs []industry.ExternalJob) []MatchOutcome {
	outcomes := make([]MatchOutcome, 0, len(jobs))

	// Newest started first so fresh jobs claim steps before stale ones.
	ordered := make([]industry.ExternalJob, len(jobs))
	copy(ordered, jobs)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := ordered[i].StartDate, ordered[j].StartDate
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return si.After(*sj)
	})

	claimed := make(map[string]bool)

	for _, job := range ordered {
		candidates := eligibleSteps(steps, job)
		if len(candidates) == 0 {
			outcomes = append(outcomes, MatchOutcome{
				Job:     job,
				Kind:    MatchNoCandidate,
				Message: fmt.Sprintf("no eligible step runs blueprint %d", job.BlueprintID),
			})
			continue
		}

		var exact *industry.PlanStep
		for _, s := range candidates {
			if s.Runs() == job.Runs && !claimed[s.ID()] {
				exact = s
				break
			}
		}

		if exact != nil {
			claimed[exact.ID()] = true
			outcomes = append(outcomes, MatchOutcome{Job: job, StepID: exact.ID(), Kind: MatchLinked})
			continue
		}

		outcomes = append(outcomes, MatchOutcome{
			Job:    job,
			StepID: candidates[0].ID(),
			Kind:   MatchRunCountMismatch,
			Message: fmt.Sprintf("job %d has %d runs, step expects %d",
				job.ID, job.Runs, candidates[0].Runs()),
		})
	}

	return outcomes
}

func eligibleSteps(steps []*industry.PlanStep, job industry.ExternalJob) []*industry.PlanStep {
	var out []*industry.PlanStep
	for _, s := range steps {
		if s.BlueprintID() != job.BlueprintID {
			continue
		}
		if s.Kind() != job.Kind {
			continue
		}
		if s.Purchased() || s.InStockQuantity() > 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MatchAllResult is the applied result of a full reconciliation pass.
type MatchAllResult struct {
	Linked   []*industry.PlanStep
	Outcomes []MatchOutcome
	Warnings []shared.Warning
}

// MatchAll reconciles all supplied jobs against a project's steps and
// applies every exact match. Run-count mismatches stay warnings.
func (m *JobMatcher) MatchAll(ctx context.Context, project *industry.Project, jobs []industry.ExternalJob) (*MatchAllResult, error) {
	result := &MatchAllResult{}
	result.Outcomes = MatchSteps(project.Steps(), jobs)

	for _, outcome := range result.Outcomes {
		switch outcome.Kind {
		case MatchLinked:
			step, err := m.Link(ctx, project, outcome.StepID, outcome.Job)
			if err != nil {
				// An id linked elsewhere in the meantime is a fact to report,
				// not a reason to abort the rest of the pass.
				if _, conflict := err.(*industry.ErrJobAlreadyLinked); conflict {
					result.Warnings = append(result.Warnings, shared.Warning{Message: err.Error(), Cause: err})
					continue
				}
				return nil, err
			}
			result.Linked = append(result.Linked, step)
		case MatchRunCountMismatch, MatchNoCandidate:
			result.Warnings = append(result.Warnings, shared.Warning{Message: outcome.Message})
		}
	}

	return result, nil
}

// Link attaches one external job to one step. It enforces blueprint
// equality and system-wide injectivity of the external job id, corrects the
// step's facility when the observed one differs, and adapts the step's runs
// once the observed jobs fully cover the plan.
func (m *JobMatcher) Link(ctx context.Context, project *industry.Project, stepID string, job industry.ExternalJob) (*industry.PlanStep, error) {
	logger := logging.LoggerFromContext(ctx)

	step := project.Step(stepID)
	if step == nil {
		return nil, shared.NewNotFoundError("step", stepID)
	}
	if step.BlueprintID() != job.BlueprintID {
		return nil, &industry.ErrBlueprintMismatch{
			ExternalJobID:   job.ID,
			JobBlueprintID:  job.BlueprintID,
			StepBlueprintID: step.BlueprintID(),
		}
	}
	if step.Kind() != job.Kind {
		return nil, shared.NewConflictError("step", step.ID(),
			fmt.Sprintf("runs a %s activity but job %d is %s", step.Kind(), job.ID, job.Kind))
	}
	if step.Purchased() {
		return nil, shared.NewConflictError("step", step.ID(), "is marked purchased and takes no jobs")
	}
	if step.InStockQuantity() > 0 {
		return nil, shared.NewConflictError("step", step.ID(), "is covered by stock and takes no jobs")
	}

	holder, err := m.projects.FindStepByExternalJobID(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, &industry.ErrJobAlreadyLinked{ExternalJobID: job.ID, StepID: holder.ID()}
	}

	match := industry.NewJobMatch(
		uuid.New().String(),
		job.ID,
		job.BlueprintID,
		job.Runs,
		job.Cost,
		job.Status,
		job.StartDate,
		job.EndDate,
		job.FacilityID,
		job.CharacterName,
	)

	if err := m.correctFacility(ctx, project, step, match, job); err != nil {
		return nil, err
	}

	if err := step.AddJobMatch(match); err != nil {
		return nil, err
	}

	// Production reality overrides the plan once the observed jobs cover
	// it: with fewer matched runs than planned the remainder is still
	// expected from future jobs, so the step keeps its planned size.
	if matched := step.MatchedRuns(); matched >= step.Runs() && matched != step.Runs() {
		perRun := quantityPerRun(step)
		if err := step.SetRuns(matched, perRun); err != nil {
			return nil, err
		}
		if _, err := m.recalculator.RequantifyFrom(ctx, project, step); err != nil {
			return nil, err
		}
	}

	logger.Log("INFO", "Linked external job to step", map[string]interface{}{
		"external_job_id": job.ID,
		"step_id":         step.ID(),
		"runs":            job.Runs,
		"character":       job.CharacterName,
	})

	return step, nil
}

// correctFacility swaps the step's assumed facility to the one the job
// actually runs in, snapshotting the planned facility on the match for
// audit, and requantifies the step's subtree under the new bonuses.
func (m *JobMatcher) correctFacility(ctx context.Context, project *industry.Project, step *industry.PlanStep, match *industry.JobMatch, job industry.ExternalJob) error {
	if job.FacilityID == nil {
		return nil
	}
	current := step.Facility()
	if current != nil && current.FacilityID == *job.FacilityID {
		return nil
	}

	observed, err := m.resolver.FindProfile(*job.FacilityID)
	if err != nil {
		return shared.NewExternalTransientError("facility resolver", err)
	}
	if observed == nil {
		// Unknown structure; keep the planned assumption.
		return nil
	}

	plannedName := ""
	plannedBonus := 0.0
	if current != nil {
		plannedName = current.Name
		if bonuses, err := m.resolver.ResolveBonuses(current, step.Kind(), ""); err == nil {
			plannedBonus = bonuses.Material
		}
	}
	match.SnapshotPlannedFacility(plannedName, plannedBonus)
	step.SetFacility(observed)

	if _, err := m.recalculator.RequantifyFrom(ctx, project, step); err != nil {
		return err
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Corrected step facility from observed job", map[string]interface{}{
		"step_id":            step.ID(),
		"observed_facility": observed.Name,
		"planned_facility":  plannedName,
	})
	return nil
}
