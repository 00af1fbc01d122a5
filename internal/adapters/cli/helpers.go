package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/eveindustry-go/internal/adapters/persistence"
	"github.com/andrescamacho/eveindustry-go/internal/adapters/staticdata"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/commands"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/queries"
	"github.com/andrescamacho/eveindustry-go/internal/application/industry/services"
	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
	"github.com/andrescamacho/eveindustry-go/internal/application/mediator"
	"github.com/andrescamacho/eveindustry-go/internal/domain/blueprint"
	"github.com/andrescamacho/eveindustry-go/internal/domain/industry"
	"github.com/andrescamacho/eveindustry-go/internal/infrastructure/config"
	"github.com/andrescamacho/eveindustry-go/internal/infrastructure/database"
)

// appContext wires the full planning stack for one CLI invocation.
type appContext struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator mediator.Mediator
}

// newAppContext loads config, opens the database and registers every
// command/query handler on a fresh mediator.
func newAppContext() (*appContext, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	catalog, err := staticdata.LoadCatalog(cfg.StaticData.Path)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to load static data: %w", err)
	}

	var prices industry.PriceFeed
	if cfg.StaticData.PricesPath != "" {
		feed, err := staticdata.LoadPriceFeed(cfg.StaticData.PricesPath)
		if err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to load price snapshot: %w", err)
		}
		prices = feed
	} else {
		prices = staticdata.NewPriceFeed(nil)
	}

	facilities := services.FacilityDefaults{
		Manufacturing: facilityFromConfig(cfg.Industry.Facilities.Manufacturing),
		Reaction:      facilityFromConfig(cfg.Industry.Facilities.Reaction),
	}
	profiles := make([]*blueprint.FacilityProfile, 0, 2)
	if facilities.Manufacturing != nil {
		profiles = append(profiles, facilities.Manufacturing)
	}
	if facilities.Reaction != nil {
		profiles = append(profiles, facilities.Reaction)
	}
	resolver := staticdata.NewStaticBonusResolver(profiles)

	projectRepo := persistence.NewGormProjectRepository(db)
	ledgerRepo := persistence.NewGormStockLedgerRepository(db)

	calculator := services.NewEfficiencyCalculator(resolver)
	builder := services.NewTreeBuilder(catalog, calculator)
	generator := services.NewStepGenerator(catalog)
	recalculator := services.NewRecalculator(catalog, calculator)
	planner := services.NewProjectPlanner(catalog, builder, generator)
	matcher := services.NewJobMatcher(projectRepo, resolver, recalculator)
	stockEngine := services.NewStockEngine(catalog, ledgerRepo)
	aggregator := services.NewCostAggregator(stockEngine)

	med := mediator.NewMediator()
	register := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("handler registration: %v", err))
		}
	}
	register(mediator.RegisterHandler[*commands.CreateProjectCommand](med, commands.NewCreateProjectHandler(planner, projectRepo, facilities)))
	register(mediator.RegisterHandler[*commands.RegenerateStepsCommand](med, commands.NewRegenerateStepsHandler(planner, projectRepo, facilities)))
	register(mediator.RegisterHandler[*commands.SplitStepCommand](med, commands.NewSplitStepHandler(generator, projectRepo)))
	register(mediator.RegisterHandler[*commands.MergeSplitGroupCommand](med, commands.NewMergeSplitGroupHandler(generator, projectRepo)))
	register(mediator.RegisterHandler[*commands.CreateManualStepCommand](med, commands.NewCreateManualStepHandler(generator, projectRepo, facilities)))
	register(mediator.RegisterHandler[*commands.UpdateStepCommand](med, commands.NewUpdateStepHandler(recalculator, projectRepo)))
	register(mediator.RegisterHandler[*commands.ApplyStockCommand](med, commands.NewApplyStockHandler(projectRepo)))
	register(mediator.RegisterHandler[*commands.AdaptStockAcrossTreeCommand](med, commands.NewAdaptStockAcrossTreeHandler(stockEngine, planner, projectRepo, facilities)))
	register(mediator.RegisterHandler[*commands.ImportStockCommand](med, commands.NewImportStockHandler(stockEngine, planner, projectRepo, facilities)))
	register(mediator.RegisterHandler[*commands.LinkExternalJobCommand](med, commands.NewLinkExternalJobHandler(matcher, projectRepo)))
	register(mediator.RegisterHandler[*commands.MatchAllJobsCommand](med, commands.NewMatchAllJobsHandler(matcher, projectRepo)))
	register(mediator.RegisterHandler[*commands.RecordPurchaseCommand](med, commands.NewRecordPurchaseHandler(projectRepo)))
	register(mediator.RegisterHandler[*queries.GetProjectQuery](med, queries.NewGetProjectHandler(projectRepo)))
	register(mediator.RegisterHandler[*queries.ListProjectsQuery](med, queries.NewListProjectsHandler(projectRepo)))
	register(mediator.RegisterHandler[*queries.LoadShoppingListQuery](med, queries.NewLoadShoppingListHandler(stockEngine, planner, projectRepo, prices, facilities)))
	register(mediator.RegisterHandler[*queries.ProjectCostQuery](med, queries.NewProjectCostHandler(aggregator, planner, projectRepo, prices, facilities)))

	return &appContext{cfg: cfg, db: db, mediator: med}, nil
}

// Close releases the database connection
func (a *appContext) Close() {
	if a.db != nil {
		database.Close(a.db)
	}
}

// ctx returns the request context, with a logger attached in verbose mode.
func (a *appContext) ctx() context.Context {
	ctx := context.Background()
	if verbose {
		level := a.cfg.Logging.Level
		if level == "info" {
			level = "debug"
		}
		out := io.Writer(os.Stdout)
		if a.cfg.Logging.Output == "stderr" {
			out = os.Stderr
		}
		ctx = logging.WithLogger(ctx, logging.NewLineLogger(out, level))
	}
	return ctx
}

// facilityFromConfig converts a configured facility into a domain profile.
// Returns nil for an empty config block so steps stay facility-less.
func facilityFromConfig(fc config.FacilityConfig) *blueprint.FacilityProfile {
	if fc.Structure == "" {
		return nil
	}
	profile := &blueprint.FacilityProfile{
		FacilityID: fc.FacilityID,
		Name:       fc.Name,
		Security:   blueprint.SecurityClass(fc.Security),
		Structure:  blueprint.StructureKind(fc.Structure),
	}
	for _, rig := range fc.Rigs {
		profile.Rigs = append(profile.Rigs, staticdata.RigBonus(rig.Name, rig.ItemCategory))
	}
	return profile
}

// resolveProjectID resolves the target project from the --project flag or
// the user config default.
func resolveProjectID() (string, error) {
	if projectID != "" {
		return projectID, nil
	}

	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no project specified and failed to load user config: %w", err)
	}
	userCfg, err := handler.Load()
	if err != nil {
		return "", fmt.Errorf("no project specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultProjectID != "" {
		return userCfg.DefaultProjectID, nil
	}

	return "", fmt.Errorf("no project specified: use --project or set a default with 'eveindustry config set-project'")
}

// formatISK renders an ISK amount with thousands separators.
func formatISK(amount float64) string {
	return fmt.Sprintf("%s ISK", formatFloat(amount))
}

func formatFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]
	negative := false
	if len(intPart) > 0 && intPart[0] == '-' {
		negative = true
		intPart = intPart[1:]
	}
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if negative {
		return "-" + string(out) + frac
	}
	return string(out) + frac
}

// formatDuration renders seconds as a compact 1d2h3m4s string.
func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	secs := d - minutes*time.Minute

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd", days)
	}
	if hours > 0 || out != "" {
		out += fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 || out != "" {
		out += fmt.Sprintf("%dm", minutes)
	}
	out += fmt.Sprintf("%ds", int64(secs/time.Second))
	return out
}
