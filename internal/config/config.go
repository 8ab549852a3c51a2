// Package config provides configuration management for the property ingest pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL           = errors.New("provider.base_url is required")
	ErrInvalidPageSize          = errors.New("provider.max_page_size must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("provider.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("provider.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("provider.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("provider.retry.timeout_sec must be at least 1")
	ErrMissingDefaultPartition  = errors.New("search.default_partition is required")
	ErrInvalidMaxPartitions     = errors.New("search.max_partitions must be at least 1")
	ErrInvalidConcurrency       = errors.New("search.concurrency must be at least 1")
	ErrEmptyCityPartitions      = errors.New("search.city_zips entries need at least one postal code")
	ErrInvalidPriceBounds       = errors.New("valuation.min_price must be positive and below valuation.max_price")
	ErrInvalidInsuranceBounds   = errors.New("valuation.insurance_min must be positive and below valuation.insurance_max")
	ErrNoPriceSources           = errors.New("valuation.price_sources needs at least one path")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrMissingAPIKey            = errors.New("provider API key is not set")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Search    SearchConfig    `yaml:"search"`
	Valuation ValuationConfig `yaml:"valuation"`
	Fields    FieldPaths      `yaml:"fields"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ProviderConfig describes the property data provider.
type ProviderConfig struct {
	BaseURL     string      `yaml:"base_url"`
	APIKeyEnv   string      `yaml:"api_key_env"`
	APIKey      string      `yaml:"-"`
	Show        string      `yaml:"show"`
	MaxPageSize int         `yaml:"max_page_size"`
	Retry       RetryPolicy `yaml:"retry"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// SearchConfig controls partition resolution and fan-out.
type SearchConfig struct {
	CityZips         map[string][]string `yaml:"city_zips"`
	DefaultPartition string              `yaml:"default_partition"`
	LookupCity       string              `yaml:"lookup_city"`
	MaxPartitions    int                 `yaml:"max_partitions"`
	Concurrency      int                 `yaml:"concurrency"`
	DefaultLimit     int                 `yaml:"default_limit"`
	LookupPartitions int                 `yaml:"lookup_partitions"`
	LookupPageSize   int                 `yaml:"lookup_page_size"`
}

// ValuationConfig holds the lookup tables behind price estimation and the auxiliary estimators.
type ValuationConfig struct {
	StateUnitPrices      map[string]map[string]float64 `yaml:"state_unit_prices"`
	DefaultUnitPrices    map[string]float64            `yaml:"default_unit_prices"`
	CityMultipliers      map[string]float64            `yaml:"city_multipliers"`
	InsuranceRates       map[string]float64            `yaml:"insurance_rates"`
	PriceSources         []string                      `yaml:"price_sources"`
	ReferenceYear        int                           `yaml:"reference_year"`
	MinPrice             float64                       `yaml:"min_price"`
	MaxPrice             float64                       `yaml:"max_price"`
	FallbackPrice        float64                       `yaml:"fallback_price"`
	FallbackBaseValue    float64                       `yaml:"fallback_base_value"`
	DefaultUnitPrice     float64                       `yaml:"default_unit_price"`
	DefaultInsuranceRate float64                       `yaml:"default_insurance_rate"`
	InsuranceMin         float64                       `yaml:"insurance_min"`
	InsuranceMax         float64                       `yaml:"insurance_max"`
	InsuranceDefault     float64                       `yaml:"insurance_default"`
	DefaultTaxRate       float64                       `yaml:"default_tax_rate"`
}

// FieldPaths maps canonical inputs to dotted paths in the provider record.
type FieldPaths struct {
	ID           string `yaml:"id"`
	Line1        string `yaml:"line1"`
	Line2        string `yaml:"line2"`
	City         string `yaml:"city"`
	State        string `yaml:"state"`
	ZipCode      string `yaml:"zip_code"`
	Bedrooms     string `yaml:"bedrooms"`
	Bathrooms    string `yaml:"bathrooms"`
	SquareFeet   string `yaml:"square_feet"`
	YearBuilt    string `yaml:"year_built"`
	LotSize      string `yaml:"lot_size"`
	Latitude     string `yaml:"latitude"`
	Longitude    string `yaml:"longitude"`
	PropertyType string `yaml:"property_type"`
	PropClass    string `yaml:"prop_class"`
	Building     string `yaml:"building"`
	WallType     string `yaml:"wall_type"`
	Fireplace    string `yaml:"fireplace"`
	FullBaths    string `yaml:"full_baths"`
	AnnualTax    string `yaml:"annual_tax"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr    string `yaml:"addr"`
	Enabled bool   `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:     "https://api.gateway.attomdata.com/propertyapi/v1.0.0",
			APIKeyEnv:   "ATTOM_API_KEY",
			Show:        "market,assessment,detail",
			MaxPageSize: 100,
			Retry: RetryPolicy{
				MaxAttempts:       2,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Search: SearchConfig{
			CityZips: map[string][]string{
				"austin":      {"78701", "78702", "78703", "78704", "78705", "78712", "78721", "78722", "78723", "78724"},
				"dallas":      {"75201", "75202", "75203", "75204", "75205", "75206", "75207", "75208", "75209", "75210"},
				"houston":     {"77001", "77002", "77003", "77004", "77005", "77006", "77007", "77008", "77009", "77010"},
				"san antonio": {"78201", "78202", "78203", "78204", "78205", "78206", "78207", "78208", "78209", "78210"},
			},
			DefaultPartition: "78701",
			LookupCity:       "austin",
			MaxPartitions:    3,
			Concurrency:      5,
			DefaultLimit:     20,
			LookupPartitions: 2,
			LookupPageSize:   50,
		},
		Valuation: ValuationConfig{
			StateUnitPrices: map[string]map[string]float64{
				"TX": {"condo": 200, "single_family": 180, "townhouse": 190},
				"CA": {"condo": 400, "single_family": 350, "townhouse": 380},
				"FL": {"condo": 250, "single_family": 220, "townhouse": 240},
				"NY": {"condo": 450, "single_family": 300, "townhouse": 350},
			},
			DefaultUnitPrices: map[string]float64{"condo": 180, "single_family": 160, "townhouse": 170},
			CityMultipliers: map[string]float64{
				"austin":      1.20,
				"dallas":      1.15,
				"houston":     1.10,
				"san antonio": 1.00,
			},
			InsuranceRates: map[string]float64{"TX": 0.008, "CA": 0.006, "FL": 0.010, "NY": 0.005},
			PriceSources: []string{
				"assessment.market.mktttlvalue",
				"assessment.market.mktlndvalue",
				"assessment.assessed.assdttlvalue",
				"market.mktttlvalue",
			},
			ReferenceYear:        2024,
			MinPrice:             100000,
			MaxPrice:             2000000,
			FallbackPrice:        350000,
			FallbackBaseValue:    300000,
			DefaultUnitPrice:     160,
			DefaultInsuranceRate: 0.007,
			InsuranceMin:         1200,
			InsuranceMax:         15000,
			InsuranceDefault:     2400,
			DefaultTaxRate:       0.015,
		},
		Fields: FieldPaths{
			ID:           "identifier.attomId",
			Line1:        "address.line1",
			Line2:        "address.line2",
			City:         "address.locality",
			State:        "address.countrySubd",
			ZipCode:      "address.postal1",
			Bedrooms:     "building.rooms.beds",
			Bathrooms:    "building.rooms.bathstotal",
			SquareFeet:   "building.size.universalsize",
			YearBuilt:    "summary.yearbuilt",
			LotSize:      "lot.lotSize1",
			Latitude:     "location.latitude",
			Longitude:    "location.longitude",
			PropertyType: "summary.propertyType",
			PropClass:    "summary.proptype",
			Building:     "building",
			WallType:     "construction.walltype",
			Fireplace:    "interior.fplctype",
			FullBaths:    "rooms.bathsfull",
			AnnualTax:    "assessment.tax.taxtot",
		},
		Logging: LoggingConfig{Level: "info"},
		Metrics: MetricsConfig{Addr: ":9090"},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.normalizeKeys()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv reads the provider API key from the configured environment variable.
func (c *Config) ApplyEnv() {
	if c.Provider.APIKeyEnv == "" {
		return
	}

	if key := strings.TrimSpace(os.Getenv(c.Provider.APIKeyEnv)); key != "" {
		c.Provider.APIKey = key
	}
}

// RequireAPIKey fails when live provider access is configured without a credential.
func (c *Config) RequireAPIKey() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("%w: set %s", ErrMissingAPIKey, c.Provider.APIKeyEnv)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Provider.MaxPageSize < 1 {
		return ErrInvalidPageSize
	}

	// Validate retry policy
	if c.Provider.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Provider.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Provider.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Provider.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	// Validate search config
	if c.Search.DefaultPartition == "" {
		return ErrMissingDefaultPartition
	}

	if c.Search.MaxPartitions < 1 {
		return ErrInvalidMaxPartitions
	}

	if c.Search.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	for city, zips := range c.Search.CityZips {
		if len(zips) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptyCityPartitions, city)
		}
	}

	// Validate valuation tables
	v := c.Valuation
	if v.MinPrice <= 0 || v.MinPrice >= v.MaxPrice {
		return ErrInvalidPriceBounds
	}

	if v.InsuranceMin <= 0 || v.InsuranceMin >= v.InsuranceMax {
		return ErrInvalidInsuranceBounds
	}

	if len(v.PriceSources) == 0 {
		return ErrNoPriceSources
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// normalizeKeys lower-cases city keys and upper-cases state keys so lookups are case-insensitive.
func (c *Config) normalizeKeys() {
	zips := make(map[string][]string, len(c.Search.CityZips))
	for city, codes := range c.Search.CityZips {
		zips[strings.ToLower(strings.TrimSpace(city))] = codes
	}

	c.Search.CityZips = zips

	mults := make(map[string]float64, len(c.Valuation.CityMultipliers))
	for city, m := range c.Valuation.CityMultipliers {
		mults[strings.ToLower(strings.TrimSpace(city))] = m
	}

	c.Valuation.CityMultipliers = mults

	units := make(map[string]map[string]float64, len(c.Valuation.StateUnitPrices))
	for state, table := range c.Valuation.StateUnitPrices {
		units[strings.ToUpper(strings.TrimSpace(state))] = table
	}

	c.Valuation.StateUnitPrices = units

	rates := make(map[string]float64, len(c.Valuation.InsuranceRates))
	for state, r := range c.Valuation.InsuranceRates {
		rates[strings.ToUpper(strings.TrimSpace(state))] = r
	}

	c.Valuation.InsuranceRates = rates
	c.Search.LookupCity = strings.ToLower(strings.TrimSpace(c.Search.LookupCity))
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Cities: %d, MaxPartitions: %d, Provider: %s}",
		len(c.Search.CityZips),
		c.Search.MaxPartitions,
		c.Provider.BaseURL,
	)
}
