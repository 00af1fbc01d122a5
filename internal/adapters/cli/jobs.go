package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/eveindustry-go/internal/application/industry/commands"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// externalJobFile is one observed job in a synced jobs export.
type externalJobFile struct {
	ID            int64      `json:"id"`
	BlueprintID   int64      `json:"blueprintId"`
	Kind          string     `json:"kind"`
	Runs          int64      `json:"runs"`
	Cost          float64    `json:"cost"`
	Status        string     `json:"status"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	FacilityID    *int64     `json:"facilityId,omitempty"`
	CharacterName string     `json:"characterName"`
}

// NewJobsCommand creates the jobs command with subcommands
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Reconcile observed production jobs with the plan",
		Long: `Match or link production jobs that were synced from the game into a
JSON export. Matching links jobs whose run counts line up exactly;
everything else is reported for manual linking.

Examples:
  eveindustry jobs match --project <id> --file jobs.json
  eveindustry jobs link --project <id> --step <step-id> --file jobs.json --job 1234567`,
	}

	cmd.AddCommand(newJobsMatchCommand())
	cmd.AddCommand(newJobsLinkCommand())

	return cmd
}

func newJobsMatchCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Auto-match all jobs in an export against the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobsMatch(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the jobs export [required]")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newJobsLinkCommand() *cobra.Command {
	var (
		stepID string
		file   string
		jobID  int64
	)

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link one specific job to one specific step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobsLink(stepID, file, jobID)
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Step ID [required]")
	cmd.Flags().StringVar(&file, "file", "", "Path to the jobs export [required]")
	cmd.Flags().Int64Var(&jobID, "job", 0, "External job ID to link [required]")
	cmd.MarkFlagRequired("step")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("job")

	return cmd
}

func runJobsMatch(file string) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	jobs, err := loadJobsExport(file)
	if err != nil {
		return err
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.MatchAllJobsCommand{
		ProjectID: id,
		Jobs:      jobs,
	})
	if err != nil {
		return fmt.Errorf("failed to match jobs: %w", err)
	}

	response := result.(*commands.MatchAllJobsResponse)
	fmt.Printf("Linked %d job(s)\n", len(response.Linked))
	for _, step := range response.Linked {
		fmt.Printf("  %s: %d matched run(s)\n", step.ProductName(), step.MatchedRuns())
	}
	for _, outcome := range response.Outcomes {
		if outcome.Kind == services.MatchRunCountMismatch {
			fmt.Printf("  needs review: job %d (%d runs) has no step with matching runs\n",
				outcome.Job.ID, outcome.Job.Runs)
		}
	}
	printWarnings(response.Warnings)
	return nil
}

func runJobsLink(stepID, file string, jobID int64) error {
	id, err := resolveProjectID()
	if err != nil {
		return err
	}

	jobs, err := loadJobsExport(file)
	if err != nil {
		return err
	}

	var job *industry.ExternalJob
	for i := range jobs {
		if jobs[i].ID == jobID {
			job = &jobs[i]
			break
		}
	}
	if job == nil {
		return fmt.Errorf("job %d not found in %s", jobID, file)
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.mediator.Send(app.ctx(), &commands.LinkExternalJobCommand{
		ProjectID: id,
		StepID:    stepID,
		Job:       *job,
	})
	if err != nil {
		return fmt.Errorf("failed to link job: %w", err)
	}

	response := result.(*commands.LinkExternalJobResponse)
	fmt.Printf("Linked job %d to step %s (%s); step now plans %d run(s)\n",
		jobID, response.Step.ID(), response.Step.ProductName(), response.Step.Runs())
	return nil
}

// loadJobsExport parses a synced jobs JSON export.
func loadJobsExport(path string) ([]industry.ExternalJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs export: %w", err)
	}

	var records []externalJobFile
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse jobs export: %w", err)
	}

	jobs := make([]industry.ExternalJob, 0, len(records))
	for _, rec := range records {
		kind, err := shared.ParseActivityKind(rec.Kind)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", rec.ID, err)
		}
		jobs = append(jobs, industry.ExternalJob{
			ID:            rec.ID,
			BlueprintID:   rec.BlueprintID,
			Kind:          kind,
			Runs:          rec.Runs,
			Cost:          rec.Cost,
			Status:        industry.JobStatus(rec.Status),
			StartDate:     rec.StartDate,
			EndDate:       rec.EndDate,
			FacilityID:    rec.FacilityID,
			CharacterName: rec.CharacterName,
		})
	}
	return jobs, nil
}
