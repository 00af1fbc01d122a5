package config

// StaticDataConfig holds the location of the exported game static data
type StaticDataConfig struct {
	// Path to the blueprint/type export (JSON)
	Path string `mapstructure:"path"`

	// Optional path to a price snapshot file (JSON). Empty disables pricing.
	PricesPath string `mapstructure:"prices_path"`
}

// IndustryConfig holds planning defaults applied to new projects
type IndustryConfig struct {
	// Default material efficiency for new projects (0-10)
	DefaultMELevel int `mapstructure:"default_me_level" validate:"min=0,max=10"`

	// Default time efficiency for new projects (0-20)
	DefaultTELevel int `mapstructure:"default_te_level" validate:"min=0,max=20"`

	// Soft cap in hours used when suggesting job splits (0 = no cap)
	MaxJobDurationHours int `mapstructure:"max_job_duration_hours" validate:"min=0"`

	// Default facilities assumed for steps until a real job corrects them
	Facilities FacilitiesConfig `mapstructure:"facilities"`
}

// FacilitiesConfig names the assumed default facility per activity family
type FacilitiesConfig struct {
	Manufacturing FacilityConfig `mapstructure:"manufacturing"`
	Reaction      FacilityConfig `mapstructure:"reaction"`
}

// FacilityConfig describes one assumed facility
type FacilityConfig struct {
	FacilityID int64       `mapstructure:"facility_id"`
	Name       string      `mapstructure:"name"`
	Structure  string      `mapstructure:"structure"`
	Security   string      `mapstructure:"security" validate:"omitempty,oneof=HIGH LOW NULL"`
	Rigs       []RigConfig `mapstructure:"rigs"`
}

// RigConfig is one installed rig on a configured facility
type RigConfig struct {
	Name         string `mapstructure:"name"`
	ItemCategory string `mapstructure:"item_category"`
}
