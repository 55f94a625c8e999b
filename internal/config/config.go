// Package config defines the data structures related to the model file and
// includes functions for loading, validating, and converting it into the
// engine's domain model.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/seyeddanesh/startupcapmodel/internal/model"
	"github.com/seyeddanesh/startupcapmodel/pkg/constants"
	"github.com/seyeddanesh/startupcapmodel/pkg/currency"
)

// Configuration holds all configuration for startupcapmodel.
type Configuration struct {
	FounderName   string
	ExchangeRates ExchangeRateConfig `yaml:"exchangeRates,omitempty"`
	Events        []EventConfig      `yaml:"events,omitempty"`

	// Legacy two-list format; carries no order keys.
	Rounds      []EventConfig `yaml:"rounds,omitempty"`
	OptionPools []EventConfig `yaml:"optionPools,omitempty"`

	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// ExchangeRateConfig holds the two primary rates all derived rates come from.
type ExchangeRateConfig struct {
	USDToGBP float64 `yaml:"usdToGbp,omitempty" mapstructure:"usdToGbp"`
	USDToEUR float64 `yaml:"usdToEur,omitempty" mapstructure:"usdToEur"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// EventConfig is the flat on-disk representation of either event variant.
type EventConfig struct {
	Type               string  `yaml:"type,omitempty"`
	ID                 string  `yaml:"id,omitempty"`
	Name               string  `yaml:"name,omitempty"`
	Order              int     `yaml:"order,omitempty"`
	Currency           string  `yaml:"currency,omitempty"`
	InvestmentAmount   float64 `yaml:"investmentAmount,omitempty" mapstructure:"investmentAmount"`
	ValuationType      string  `yaml:"valuationType,omitempty" mapstructure:"valuationType"`
	ValuationSource    string  `yaml:"valuationSource,omitempty" mapstructure:"valuationSource"`
	ManualValuation    float64 `yaml:"manualValuation,omitempty" mapstructure:"manualValuation"`
	ReferenceRoundID   string  `yaml:"referenceRoundId,omitempty" mapstructure:"referenceRoundId"`
	DiscountPercentage float64 `yaml:"discountPercentage,omitempty" mapstructure:"discountPercentage"`
	NewInvestorName    string  `yaml:"newInvestorName,omitempty" mapstructure:"newInvestorName"`
	Percentage         float64 `yaml:"percentage,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// model file there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML-formatted model file from an
// in-memory reader, used by the HTTP host.
func LoadConfigurationFromReader(reader io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.ExchangeRates.USDToGBP == 0 {
		c.ExchangeRates.USDToGBP = constants.DefaultUSDToGBP
	}
	if c.ExchangeRates.USDToEUR == 0 {
		c.ExchangeRates.USDToEUR = constants.DefaultUSDToEUR
	}
}

// RateTable derives the full directed exchange-rate table from the
// configured primaries.
func (c *Configuration) RateTable() currency.RateTable {
	return currency.DeriveTable(c.ExchangeRates.USDToGBP, c.ExchangeRates.USDToEUR)
}

// BuildModel converts the loaded configuration into the engine's domain
// model. The legacy rounds/optionPools lists are reconstructed with
// alternating implicit order keys; cap tables are always reset so the first
// recalculation rederives them.
func (c *Configuration) BuildModel() (*model.Model, error) {
	m := &model.Model{FounderName: c.FounderName}

	if len(c.Events) > 0 {
		for i, eventConfig := range c.Events {
			event, err := eventConfig.toEvent()
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			m.Events = append(m.Events, event)
		}
		m.Events = model.EventList(model.SortByOrder(m.Events))
		return m, nil
	}

	var rounds, pools []model.Event
	for i, roundConfig := range c.Rounds {
		roundConfig.Type = string(model.KindFundingRound)
		event, err := roundConfig.toEvent()
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		rounds = append(rounds, event)
	}
	for i, poolConfig := range c.OptionPools {
		poolConfig.Type = string(model.KindOptionPool)
		event, err := poolConfig.toEvent()
		if err != nil {
			return nil, fmt.Errorf("option pool %d: %w", i, err)
		}
		pools = append(pools, event)
	}
	m.Events = model.ReconstructLegacyOrder(rounds, pools)
	return m, nil
}

func (e EventConfig) toEvent() (model.Event, error) {
	base := model.EventBase{
		ID:    e.ID,
		Name:  e.Name,
		Order: e.Order,
	}

	switch model.Kind(e.Type) {
	case model.KindFundingRound:
		code := currency.Code(e.Currency)
		if e.Currency == "" {
			code = currency.USD
		}
		valuationType := model.ValuationType(e.ValuationType)
		if e.ValuationType == "" {
			valuationType = model.ValuationPreMoney
		}
		valuationSource := model.ValuationSource(e.ValuationSource)
		if e.ValuationSource == "" {
			valuationSource = model.SourceManual
		}
		return &model.FundingRound{
			EventBase:          base,
			Currency:           code,
			InvestmentAmount:   e.InvestmentAmount,
			ValuationType:      valuationType,
			ValuationSource:    valuationSource,
			ManualValuation:    e.ManualValuation,
			ReferenceRoundID:   e.ReferenceRoundID,
			DiscountPercentage: e.DiscountPercentage,
			NewInvestorName:    e.NewInvestorName,
		}, nil
	case model.KindOptionPool:
		return &model.OptionPool{
			EventBase:  base,
			Percentage: e.Percentage,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}
