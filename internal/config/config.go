package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TimeZone is the single zone trip times are reported and windowed in.
const TimeZone = "America/New_York"

// Product types the export uses for trips that count toward a cap
const (
	ProductPayGo        = "PAYGO"
	ProductFreeTripWeek = "Free Trip – Weekly Fare Cap"
)

// WeeklyCapName names the cap the card already applies. Its capping fare
// identifies the trips that hit the cap in the export.
const WeeklyCapName = "weekly"

// CapConfig describes one simulated fare cap
type CapConfig struct {
	Name   string `yaml:"name"`
	Days   int    `yaml:"days"`
	Amount string `yaml:"amount"`
}

// FutureCardConfig parameterizes the what-if discount projection:
// a flat rate off the total fare plus a bonus per capped week.
type FutureCardConfig struct {
	DiscountRate string `yaml:"discount_rate"`
	WeeklyBonus  string `yaml:"weekly_bonus"`
}

// Config holds all configuration for a report run
type Config struct {
	// Fixed full fare charged per eligible trip
	Fare string `yaml:"fare"`

	// Product types counted toward the caps
	EligibleProductTypes []string `yaml:"eligible_product_types"`

	// Caps to simulate, in print order. One must be named WeeklyCapName.
	Caps []CapConfig `yaml:"caps"`

	FutureCard FutureCardConfig `yaml:"future_card"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration for OMNY in New York.
func Default() *Config {
	return &Config{
		Fare:                 "2.90",
		EligibleProductTypes: []string{ProductPayGo, ProductFreeTripWeek},
		Caps: []CapConfig{
			{Name: "weekly", Days: 7, Amount: "34"},
			{Name: "monthly", Days: 30, Amount: "132"},
		},
		FutureCard: FutureCardConfig{
			DiscountRate: "0.05",
			WeeklyBonus:  "5",
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	cfg.Fare = getEnv("OMNY_FARE", cfg.Fare)
	cfg.LogLevel = getEnv("OMNY_LOG_LEVEL", cfg.LogLevel)
	if i := cfg.WeeklyCap(); i >= 0 {
		cfg.Caps[i].Days = getEnvInt("OMNY_WEEKLY_CAP_DAYS", cfg.Caps[i].Days)
		cfg.Caps[i].Amount = getEnv("OMNY_WEEKLY_CAP", cfg.Caps[i].Amount)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every amount parses and every cap is usable.
func (c *Config) Validate() error {
	fare, err := decimal.NewFromString(c.Fare)
	if err != nil {
		return fmt.Errorf("%w: fare %q", ErrInvalidAmount, c.Fare)
	}
	if !fare.IsPositive() {
		return fmt.Errorf("%w: fare must be positive", ErrInvalidAmount)
	}
	if len(c.EligibleProductTypes) == 0 {
		return ErrNoEligibleTypes
	}
	if len(c.Caps) == 0 {
		return ErrNoCaps
	}
	if c.WeeklyCap() < 0 {
		return fmt.Errorf("%w: no cap named %q", ErrNoWeeklyCap, WeeklyCapName)
	}
	for _, fc := range c.Caps {
		if fc.Days < 1 {
			return fmt.Errorf("%w: cap %q has %d days", ErrInvalidCap, fc.Name, fc.Days)
		}
		amount, err := decimal.NewFromString(fc.Amount)
		if err != nil || !amount.IsPositive() {
			return fmt.Errorf("%w: cap %q amount %q", ErrInvalidCap, fc.Name, fc.Amount)
		}
	}
	if _, err := decimal.NewFromString(c.FutureCard.DiscountRate); err != nil {
		return fmt.Errorf("%w: future card discount rate %q", ErrInvalidAmount, c.FutureCard.DiscountRate)
	}
	if _, err := decimal.NewFromString(c.FutureCard.WeeklyBonus); err != nil {
		return fmt.Errorf("%w: future card weekly bonus %q", ErrInvalidAmount, c.FutureCard.WeeklyBonus)
	}
	return nil
}

// WeeklyCap returns the index of the cap named WeeklyCapName, or -1.
func (c *Config) WeeklyCap() int {
	for i, fc := range c.Caps {
		if fc.Name == WeeklyCapName {
			return i
		}
	}
	return -1
}

// FareAmount returns the fixed fare. Validate must have passed.
func (c *Config) FareAmount() decimal.Decimal {
	return decimal.RequireFromString(c.Fare)
}

// Eligible returns the eligible product types as a set.
func (c *Config) Eligible() map[string]bool {
	set := make(map[string]bool, len(c.EligibleProductTypes))
	for _, t := range c.EligibleProductTypes {
		set[t] = true
	}
	return set
}

// Location loads TimeZone. The zone database is embedded, so this only
// fails on a corrupt binary.
func Location() (*time.Location, error) {
	return time.LoadLocation(TimeZone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
