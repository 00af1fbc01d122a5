package persistence

import (
	"time"
)

// ProjectModel represents the projects table
type ProjectModel struct {
	ID                   string    `gorm:"column:id;primaryKey;not null"`
	Name                 string    `gorm:"column:name;not null"`
	ProductTypeID        int64     `gorm:"column:product_type_id;not null"`
	ProductName          string    `gorm:"column:product_name;not null"`
	BlueprintID          int64     `gorm:"column:blueprint_id;not null"`
	Runs                 int64     `gorm:"column:runs;not null"`
	MELevel              int       `gorm:"column:me_level;not null"`
	TELevel              int       `gorm:"column:te_level;not null"`
	SellPrice            float64   `gorm:"column:sell_price;not null;default:0"`
	TransportCost        float64   `gorm:"column:transport_cost;not null;default:0"`
	TaxPercent           float64   `gorm:"column:tax_percent;not null;default:0"`
	MaterialCostOverride *float64  `gorm:"column:material_cost_override"`
	MaxJobDurationHours  int       `gorm:"column:max_job_duration_hours;not null;default:0"`
	ExcludedTypeIDs      string    `gorm:"column:excluded_type_ids;type:text"` // JSON array as text
	CreatedAt            time.Time `gorm:"column:created_at;not null"`
	UpdatedAt            time.Time `gorm:"column:updated_at;not null"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

// PlanStepModel represents the plan_steps table
type PlanStepModel struct {
	ID              string        `gorm:"column:id;primaryKey;not null"`
	ProjectID       string        `gorm:"column:project_id;index;not null"`
	Project         *ProjectModel `gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BlueprintID     int64         `gorm:"column:blueprint_id;not null"`
	BlueprintName   string        `gorm:"column:blueprint_name;not null"`
	ProductTypeID   int64         `gorm:"column:product_type_id;not null"`
	ProductName     string        `gorm:"column:product_name;not null"`
	ActivityKind    string        `gorm:"column:activity_kind;not null"`
	Runs            int64         `gorm:"column:runs;not null"`
	Quantity        int64         `gorm:"column:quantity;not null"`
	Depth           int           `gorm:"column:depth;not null"`
	SortOrder       int           `gorm:"column:sort_order;not null"`
	SplitGroupID    string        `gorm:"column:split_group_id;index"`
	SplitIndex      int           `gorm:"column:split_index;not null;default:0"`
	TotalGroupRuns  int64         `gorm:"column:total_group_runs;not null;default:0"`
	MELevel         int           `gorm:"column:me_level;not null"`
	TELevel         int           `gorm:"column:te_level;not null"`
	FacilityJSON    string        `gorm:"column:facility_json;type:text"` // FacilityProfile as JSON, empty when unassigned
	Purchased       bool          `gorm:"column:purchased;not null;default:false"`
	InStockQuantity int64         `gorm:"column:in_stock_quantity;not null;default:0"`
}

func (PlanStepModel) TableName() string {
	return "plan_steps"
}

// JobMatchModel represents the job_matches table.
// The unique index on external_job_id enforces system-wide injectivity:
// one observed job can back at most one step across all projects.
type JobMatchModel struct {
	ID                   string         `gorm:"column:id;primaryKey;not null"`
	StepID               string         `gorm:"column:step_id;index;not null"`
	Step                 *PlanStepModel `gorm:"foreignKey:StepID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ExternalJobID        int64          `gorm:"column:external_job_id;uniqueIndex;not null"`
	BlueprintID          int64          `gorm:"column:blueprint_id;not null"`
	Runs                 int64          `gorm:"column:runs;not null"`
	Cost                 float64        `gorm:"column:cost;not null;default:0"`
	Status               string         `gorm:"column:status;not null"`
	StartDate            *time.Time     `gorm:"column:start_date"`
	EndDate              *time.Time     `gorm:"column:end_date"`
	FacilityID           *int64         `gorm:"column:facility_id"`
	CharacterName        string         `gorm:"column:character_name"`
	PlannedFacilityName  string         `gorm:"column:planned_facility_name"`
	PlannedMaterialBonus float64        `gorm:"column:planned_material_bonus;not null;default:0"`
	FacilityCorrected    bool           `gorm:"column:facility_corrected;not null;default:false"`
}

func (JobMatchModel) TableName() string {
	return "job_matches"
}

// PurchaseModel represents the purchases table
type PurchaseModel struct {
	ID         string         `gorm:"column:id;primaryKey;not null"`
	StepID     string         `gorm:"column:step_id;index;not null"`
	Step       *PlanStepModel `gorm:"foreignKey:StepID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TypeID     int64          `gorm:"column:type_id;not null"`
	TypeName   string         `gorm:"column:type_name;not null"`
	Quantity   int64          `gorm:"column:quantity;not null"`
	UnitPrice  float64        `gorm:"column:unit_price;not null;default:0"`
	TotalPrice float64        `gorm:"column:total_price;not null;default:0"`
	Source     string         `gorm:"column:source;not null"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

// StockLedgerModel represents the stock_ledger table.
// One row per (project, case-normalized raw material name).
type StockLedgerModel struct {
	ProjectID      string        `gorm:"column:project_id;primaryKey;not null"`
	Project        *ProjectModel `gorm:"foreignKey:ProjectID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	NormalizedName string        `gorm:"column:normalized_name;primaryKey;not null"`
	TypeID         int64         `gorm:"column:type_id;not null"`
	Quantity       int64         `gorm:"column:quantity;not null;default:0"`
}

func (StockLedgerModel) TableName() string {
	return "stock_ledger"
}
