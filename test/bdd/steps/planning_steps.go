package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/persistence"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/infrastructure/database"
	"github.com/andrescamacho/eveindustry-go/test/helpers"
)

type planningContext struct {
	fixture *helpers.PlanningFixture
	repo    *persistence.GormProjectRepository
	matcher *services.JobMatcher

	project       *industry.Project
	secondProject *industry.Project
	group         []*industry.PlanStep
	kept          *industry.PlanStep
	err           error
}

func (pc *planningContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create scenario database: %w", err)
	}
	pc.fixture = helpers.NewPlanningFixture(helpers.NewMockStockLedgerRepository())
	pc.repo = persistence.NewGormProjectRepository(db)
	pc.matcher = services.NewJobMatcher(pc.repo, pc.fixture.Resolver, pc.fixture.Recalculator)
	pc.project = nil
	pc.secondProject = nil
	pc.group = nil
	pc.kept = nil
	pc.err = nil
	return nil
}

func (pc *planningContext) newProject(quantity int64) (*industry.Project, error) {
	result, err := pc.fixture.Planner.CreateProject(context.Background(), "Rifter batch", helpers.RifterTypeID, quantity, 0, 0, pc.fixture.Facilities.Assigner())
	if err != nil {
		return nil, err
	}
	if err := pc.repo.Create(context.Background(), result.Project); err != nil {
		return nil, err
	}
	return result.Project, nil
}

func (pc *planningContext) aPlannedProjectForUnits(quantity int64) error {
	project, err := pc.newProject(quantity)
	if err != nil {
		return err
	}
	pc.project = project
	return nil
}

func (pc *planningContext) rootStep() *industry.PlanStep {
	return pc.project.Steps()[0]
}

// componentStep is the first depth-1 step of the plan, the Construction
// Blocks run in the fixture catalog.
func (pc *planningContext) componentStep() *industry.PlanStep {
	for _, s := range pc.project.Steps() {
		if s.Depth() == 1 {
			return s
		}
	}
	return nil
}

func (pc *planningContext) theRootStepIsSplitIntoJobs(jobs int) error {
	group, err := pc.fixture.Generator.Split(context.Background(), pc.project, pc.rootStep().ID(), jobs)
	if err != nil {
		return err
	}
	pc.group = group
	return nil
}

func (pc *planningContext) iSplitTheRootStepIntoJobs(jobs int) error {
	pc.group, pc.err = pc.fixture.Generator.Split(context.Background(), pc.project, pc.rootStep().ID(), jobs)
	return nil
}

func (pc *planningContext) theSplitGroupRunsShouldBe(a, b, c int64) error {
	if pc.group == nil {
		return fmt.Errorf("no split group recorded")
	}
	expected := []int64{a, b, c}
	if len(pc.group) != len(expected) {
		return fmt.Errorf("expected %d group members, got %d", len(expected), len(pc.group))
	}
	for i, runs := range expected {
		if pc.group[i].Runs() != runs {
			return fmt.Errorf("member %d: expected %d runs, got %d", i, runs, pc.group[i].Runs())
		}
	}
	return nil
}

func (pc *planningContext) theTotalGroupRunsShouldBe(total int64) error {
	for i, member := range pc.group {
		if member.TotalGroupRuns() != total {
			return fmt.Errorf("member %d: expected total %d, got %d", i, total, member.TotalGroupRuns())
		}
	}
	return nil
}

func (pc *planningContext) iMergeTheSplitGroup() error {
	if len(pc.group) == 0 {
		return fmt.Errorf("no split group to merge")
	}
	pc.kept, pc.err = pc.fixture.Generator.Merge(context.Background(), pc.project, pc.group[0].SplitGroupID())
	return nil
}

func (pc *planningContext) theKeptStepShouldHaveRuns(runs int64) error {
	if pc.err != nil {
		return fmt.Errorf("merge failed: %w", pc.err)
	}
	if pc.kept == nil {
		return fmt.Errorf("no kept step recorded")
	}
	if pc.kept.Runs() != runs {
		return fmt.Errorf("expected %d runs, got %d", runs, pc.kept.Runs())
	}
	return nil
}

func (pc *planningContext) theProjectShouldHaveSteps(count int) error {
	if pc.project.StepCount() != count {
		return fmt.Errorf("expected %d steps, got %d", count, pc.project.StepCount())
	}
	return nil
}

func (pc *planningContext) theOperationShouldFail() error {
	if pc.err == nil {
		return fmt.Errorf("expected an error, got none")
	}
	return nil
}

func (pc *planningContext) linkJob(project *industry.Project, jobID, runs int64) error {
	step := pc.componentStepOf(project)
	if step == nil {
		return fmt.Errorf("no component step in plan")
	}
	_, err := pc.matcher.Link(context.Background(), project, step.ID(), industry.ExternalJob{
		ID:            jobID,
		BlueprintID:   step.BlueprintID(),
		Kind:          step.Kind(),
		Runs:          runs,
		Status:        industry.JobStatusActive,
		CharacterName: "Test Pilot",
	})
	if err != nil {
		return err
	}
	return pc.repo.Update(context.Background(), project)
}

func (pc *planningContext) componentStepOf(project *industry.Project) *industry.PlanStep {
	for _, s := range project.Steps() {
		if s.Depth() == 1 {
			return s
		}
	}
	return nil
}

func (pc *planningContext) iLinkJobWithRuns(jobID, runs int64) error {
	pc.err = pc.linkJob(pc.project, jobID, runs)
	return nil
}

func (pc *planningContext) jobWithRunsIsLinked(jobID, runs int64) error {
	return pc.linkJob(pc.project, jobID, runs)
}

func (pc *planningContext) iLinkJobToSecondProject(jobID, runs int64) error {
	project, err := pc.newProject(1)
	if err != nil {
		return err
	}
	pc.secondProject = project
	pc.err = pc.linkJob(pc.secondProject, jobID, runs)
	return nil
}

func (pc *planningContext) theComponentStepShouldHaveRuns(runs int64) error {
	if pc.err != nil {
		return fmt.Errorf("link failed: %w", pc.err)
	}
	step := pc.componentStep()
	if step.Runs() != runs {
		return fmt.Errorf("expected %d runs, got %d", runs, step.Runs())
	}
	return nil
}

// InitializePlanningScenario registers the planning step definitions.
func InitializePlanningScenario(sc *godog.ScenarioContext) {
	pc := &planningContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	sc.Step(`^a planned project for (\d+) units? of Rifter$`, pc.aPlannedProjectForUnits)
	sc.Step(`^the root step is split into (\d+) jobs$`, pc.theRootStepIsSplitIntoJobs)
	sc.Step(`^I split the root step into (\d+) jobs$`, pc.iSplitTheRootStepIntoJobs)
	sc.Step(`^the split group runs should be (\d+), (\d+) and (\d+)$`, pc.theSplitGroupRunsShouldBe)
	sc.Step(`^the total group runs should be (\d+)$`, pc.theTotalGroupRunsShouldBe)
	sc.Step(`^I merge the split group$`, pc.iMergeTheSplitGroup)
	sc.Step(`^the kept step should have (\d+) runs$`, pc.theKeptStepShouldHaveRuns)
	sc.Step(`^the project should have (\d+) steps$`, pc.theProjectShouldHaveSteps)
	sc.Step(`^the operation should fail$`, pc.theOperationShouldFail)
	sc.Step(`^I link job (\d+) with (\d+) runs to the component step$`, pc.iLinkJobWithRuns)
	sc.Step(`^job (\d+) with (\d+) runs is linked to the component step$`, pc.jobWithRunsIsLinked)
	sc.Step(`^I link job (\d+) with (\d+) runs to the component step of a second project$`, pc.iLinkJobToSecondProject)
	sc.Step(`^the component step should still have (\d+) runs$`, pc.theComponentStepShouldHaveRuns)
	sc.Step(`^the component step should have (\d+) runs$`, pc.theComponentStepShouldHaveRuns)
}
