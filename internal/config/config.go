package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/vavive/rotas/pkg/core/engine"
)

// PlanRecurrence defines a recurring service plan to expand into future orders
type PlanRecurrence struct {
	Plan        string  `yaml:"plan" validate:"required"`
	ClientTaxID string  `yaml:"clientTaxID" validate:"required"`
	RRule       string  `yaml:"rrule" validate:"required"`
	EntryTime   string  `yaml:"entryTime,omitempty"`
	Hours       float64 `yaml:"hours,omitempty" validate:"omitempty,gt=0"`
	Service     string  `yaml:"service,omitempty"`
}

// EngineConfig carries the assignment-engine knobs as they appear on disk
// Values are clamped, not rejected: the engine itself only hard-fails on an
// out-of-range candidate cap, and clamping is this layer's job
type EngineConfig struct {
	MaxCandidates          int     `yaml:"maxCandidates,omitempty"`
	FavoriteRadiusKm       float64 `yaml:"favoriteRadiusKm,omitempty"`
	DistanceDeltaKm        float64 `yaml:"distanceDeltaKm,omitempty"`
	AvoidRepeatAcrossDay   *bool   `yaml:"avoidRepeatAcrossDay,omitempty"`
	GuaranteeFavoriteQuota *bool   `yaml:"guaranteeFavoriteQuota,omitempty"`
}

// Config represents the application configuration
type Config struct {
	WorkbookSheetID string `yaml:"workbookSheetID" validate:"required"`

	ClientsTab         string `yaml:"clientsTab,omitempty"`
	ProfessionalsTab   string `yaml:"professionalsTab,omitempty"`
	PreferencesTab     string `yaml:"preferencesTab,omitempty"`
	BlocklistTab       string `yaml:"blocklistTab,omitempty"`
	FavoritesTab       string `yaml:"favoritesTab,omitempty"`
	LowAvailabilityTab string `yaml:"lowAvailabilityTab,omitempty"`
	OrdersTab          string `yaml:"ordersTab,omitempty"`

	DatabaseURL string `yaml:"databaseURL,omitempty"`

	Engine EngineConfig     `yaml:"engine,omitempty"`
	Plans  []PlanRecurrence `yaml:"plans,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from vavive_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each recurring plan
	for i, plan := range cfg.Plans {
		if _, err := rrule.StrToRRule(plan.RRule); err != nil {
			return fmt.Errorf("invalid rrule in plans[%d]: %w", i, err)
		}
	}

	return nil
}

// applyDefaults fills unset tab names with the operator's workbook layout
func (c *Config) applyDefaults() {
	setDefault(&c.ClientsTab, "Clientes")
	setDefault(&c.ProfessionalsTab, "Profissionais")
	setDefault(&c.PreferencesTab, "Preferencias")
	setDefault(&c.BlocklistTab, "Bloqueio")
	setDefault(&c.FavoritesTab, "Profissionais Preferenciais")
	setDefault(&c.LowAvailabilityTab, "Baixa Disponibilidade")
	setDefault(&c.OrdersTab, "Atendimentos")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// EngineParams converts the on-disk engine section into engine parameters,
// clamping every knob into its valid range
func (c *Config) EngineParams() engine.Params {
	params := engine.DefaultParams()

	if c.Engine.MaxCandidates != 0 {
		params.MaxCandidates = clampInt(c.Engine.MaxCandidates,
			engine.MinCandidatesPerOrder, engine.MaxCandidatesPerOrder)
	}
	if c.Engine.FavoriteRadiusKm > 0 {
		params.FavoriteRadiusKm = c.Engine.FavoriteRadiusKm
	}
	if c.Engine.DistanceDeltaKm > 0 {
		params.DistanceDeltaKm = c.Engine.DistanceDeltaKm
	}
	if c.Engine.AvoidRepeatAcrossDay != nil {
		params.AvoidRepeatAcrossDay = *c.Engine.AvoidRepeatAcrossDay
	}
	if c.Engine.GuaranteeFavoriteQuota != nil {
		params.GuaranteeFavoriteQuota = *c.Engine.GuaranteeFavoriteQuota
	}

	return params
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// findConfigFile searches for vavive_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "vavive_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
