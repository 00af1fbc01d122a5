package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "eveindustry.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "eveindustry"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "eveindustry"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Static data defaults
	if cfg.StaticData.Path == "" {
		cfg.StaticData.Path = "sde/blueprints.json"
	}

	// Industry defaults
	if cfg.Industry.DefaultMELevel == 0 {
		cfg.Industry.DefaultMELevel = 10
	}
	if cfg.Industry.DefaultTELevel == 0 {
		cfg.Industry.DefaultTELevel = 20
	}
	if cfg.Industry.Facilities.Manufacturing.Structure == "" {
		cfg.Industry.Facilities.Manufacturing.Name = "Raitaru"
		cfg.Industry.Facilities.Manufacturing.Structure = "RAITARU"
		cfg.Industry.Facilities.Manufacturing.Security = "NULL"
	}
	if cfg.Industry.Facilities.Reaction.Structure == "" {
		cfg.Industry.Facilities.Reaction.Name = "Athanor"
		cfg.Industry.Facilities.Reaction.Structure = "ATHANOR"
		cfg.Industry.Facilities.Reaction.Security = "LOW"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
