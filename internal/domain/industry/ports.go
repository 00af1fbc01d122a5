package industry

import (
	"context"
	"time"

	"github.com/andrescamacho/eveindustry-go/internal/domain/shared"
)

// ExternalJob is one production job observed on the live game server,
// already synced by the caller. The engine never fetches these itself.
type ExternalJob struct {
	ID            int64
	BlueprintID   int64
	Kind          shared.ActivityKind
	Runs          int64
	Cost          float64
	Status        JobStatus
	StartDate     *time.Time
	EndDate       *time.Time
	FacilityID    *int64
	CharacterName string
}

// PriceLocationKind classifies where a quote comes from.
type PriceLocationKind string

const (
	PriceLocationStation    PriceLocationKind = "STATION"
	PriceLocationStructure  PriceLocationKind = "STRUCTURE"
	PriceLocationRegionBuy  PriceLocationKind = "REGION_BUY"
	PriceLocationRegionSell PriceLocationKind = "REGION_SELL"
)

// PriceQuote is one unit price observed at one location kind.
type PriceQuote struct {
	UnitPrice    float64
	LocationKind PriceLocationKind
}

// PriceFeed supplies pre-fetched quotes per raw-material type. A missing
// type yields an empty slice, a temporarily broken source an
// ExternalTransientError; neither fails the calling operation.
type PriceFeed interface {
	QuotesFor(typeID int64) ([]PriceQuote, error)
}

// ProjectRepository persists project aggregates together with their steps,
// job matches and purchases.
type ProjectRepository interface {
	// Create persists a new project and its current steps.
	Create(ctx context.Context, project *Project) error

	// Update saves the project header and the full step collection.
	Update(ctx context.Context, project *Project) error

	// FindByID loads a project with steps, matches and purchases attached.
	FindByID(ctx context.Context, id string) (*Project, error)

	// FindAll lists all projects, most recently updated first.
	FindAll(ctx context.Context) ([]*Project, error)

	// FindStepByExternalJobID returns the step currently holding a match for
	// the given external job id, across all projects. Returns nil, nil when
	// the id is unlinked. This backs the system-wide injectivity guarantee.
	FindStepByExternalJobID(ctx context.Context, externalJobID int64) (*PlanStep, error)

	// Delete removes a project and everything hanging off it.
	Delete(ctx context.Context, id string) error
}

// StockLedgerEntry is owned stock of a raw material, keyed by the
// case-normalized type name used for shopping-list matching.
type StockLedgerEntry struct {
	ProjectID      string
	NormalizedName string
	TypeID         int64
	Quantity       int64
}

// StockLedgerRepository persists the raw-material ledger per project. Raw
// materials are not modeled as steps, so their stock lives here.
type StockLedgerRepository interface {
	Upsert(ctx context.Context, entry StockLedgerEntry) error
	FindByProject(ctx context.Context, projectID string) ([]StockLedgerEntry, error)
	DeleteByProject(ctx context.Context, projectID string) error
}
